package signal

import "regexp"

// urlKeywords flag subscription/payment-shaped URLs. Matched as substrings
// of the lower-cased URL; the signal is boolean, never counted twice.
var urlKeywords = []string{
	"subscribe", "signup", "billing", "checkout", "pricing",
	"plans", "payment", "premium", "pro",
}

// contentKeywords is the bilingual keyword list scanned against visible
// text, case-insensitive. Each distinct hit counts once.
var contentKeywords = []string{
	"subscribe", "subscription", "billing", "upgrade", "purchase",
	"renew", "free trial", "premium", "membership", "per month",
	"订阅", "购买", "升级", "付费", "会员", "续费", "试用", "免费",
}

// priceTokenRe matches a currency-prefixed numeric token with an optional
// period suffix ($9.99, ¥68/月, €12.50/month, $99 per year)
var priceTokenRe = regexp.MustCompile(`[$€¥￥]\s?\d+(?:[.,]\d{1,2})?(?:\s?/\s?(?:mo(?:nth)?|yr|year|月|年)|\s?(?:per\s+(?:month|year)|每月|每年))?`)

// yearlyPeriodRe and weeklyPeriodRe classify the period unit of a price
// token; anything else is treated as monthly.
var (
	yearlyPeriodRe = regexp.MustCompile(`(?i)/\s?(?:yr|year)|per\s+year|每年|/年|年`)
	weeklyPeriodRe = regexp.MustCompile(`(?i)/\s?(?:wk|week)|per\s+week|每周|/周|周`)
)

// formMarkers flag subscribe/checkout/billing forms by id, class, name or
// action attribute.
var formMarkers = []string{
	"subscribe", "checkout", "billing", "payment", "signup", "upgrade",
}

// buttonMarkers flag subscription-shaped buttons by visible text, value,
// class or id.
var buttonMarkers = []string{
	"subscribe", "checkout", "pay now", "buy now", "upgrade",
	"start trial", "start free trial", "get premium",
	"订阅", "购买", "支付", "立即购买", "开始试用", "升级",
}
