package watch

import (
	"strings"

	"github.com/subwatchhq/subwatch/internal/model"
)

// checkoutURLPatterns are known checkout-provider domains/paths. A URL
// change landing on one of these fires a payment-link detection.
var checkoutURLPatterns = []string{
	"checkout.stripe.com",
	"stripe.com/pay",
	"paypal.com/checkoutnow",
	"paypal.com/webapps/hermes",
	"pay.google.com",
	"checkout.shopify.com",
	"buy.itunes.apple.com",
	"checkout.paddle.com",
	"pay.weixin.qq.com",
	"alipay.com/payment",
}

// Bilingual marker lists for classifying interactions. Order of the checks
// in classifyAction matters: the more specific cycle/plan markers win over
// the generic payment ones.
var (
	billingCycleWords = []string{
		"monthly", "yearly", "annually", "annual", "per month", "per year",
		"月付", "年付", "每月", "每年", "按月", "按年",
	}
	planWords = []string{
		"select plan", "choose plan", "choose your plan", "plan",
		"套餐", "选择套餐", "方案",
	}
	paymentWords = []string{
		"pay", "payment", "checkout", "purchase", "buy", "order now",
		"支付", "付款", "购买", "结算", "下单",
	}
	subscriptionWords = []string{
		"subscribe", "subscription", "start trial", "free trial", "join",
		"订阅", "开通", "开始试用",
	}
)

// isCheckoutURL reports whether the URL lands on a known checkout provider
func isCheckoutURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, pattern := range checkoutURLPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// classifyAction maps an interaction's element to a trigger type, or ""
// when the element is not subscription-shaped.
func classifyAction(el model.ElementInfo) model.TriggerType {
	haystack := strings.ToLower(strings.Join([]string{el.Text, el.Class, el.ID, el.Href}, " "))

	if containsAny(haystack, billingCycleWords) {
		return model.TriggerBillingCycleChange
	}
	if containsAny(haystack, planWords) {
		return model.TriggerPlanSelection
	}
	if containsAny(haystack, paymentWords) {
		if el.Tag == "a" {
			return model.TriggerPaymentLink
		}
		return model.TriggerPaymentButton
	}
	if containsAny(haystack, subscriptionWords) {
		return model.TriggerSubscriptionAction
	}
	return ""
}

// isPaymentForm reports whether a submitted form is payment-shaped
func isPaymentForm(el model.ElementInfo) bool {
	haystack := strings.ToLower(strings.Join([]string{el.Class, el.ID, el.Href, el.Text}, " "))
	return containsAny(haystack, paymentWords) || containsAny(haystack, subscriptionWords)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// isPaymentTrigger reports whether the trigger is gated by the payment
// latch; the remaining action triggers use the subscription latch.
func isPaymentTrigger(t model.TriggerType) bool {
	switch t {
	case model.TriggerPaymentLink, model.TriggerPaymentForm, model.TriggerPaymentButton:
		return true
	}
	return false
}
