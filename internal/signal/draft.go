package signal

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/subwatchhq/subwatch/internal/model"
)

// knownHosts maps well-known service domains to a proposed name/category
// pair. Anything else falls back to title/host heuristics with category
// left for the normalizer to default.
var knownHosts = map[string]model.Service{
	"netflix.com":    {Name: "Netflix", Category: "Streaming"},
	"spotify.com":    {Name: "Spotify", Category: "Music"},
	"youtube.com":    {Name: "YouTube Premium", Category: "Streaming"},
	"disneyplus.com": {Name: "Disney+", Category: "Streaming"},
	"amazon.com":     {Name: "Amazon Prime", Category: "Streaming"},
	"icloud.com":     {Name: "iCloud+", Category: "Cloud"},
	"openai.com":     {Name: "ChatGPT Plus", Category: "Software"},
	"chatgpt.com":    {Name: "ChatGPT Plus", Category: "Software"},
	"github.com":     {Name: "GitHub", Category: "Software"},
}

// DraftFromPage turns a candidate page's title, URL, and price tokens into
// a subscription draft for the normalizer. Best-effort: unresolved fields
// stay empty and the normalizer nulls or defaults them.
func DraftFromPage(title, rawURL string, priceTokens []string) model.SubscriptionDraft {
	draft := model.SubscriptionDraft{}

	name, category := serviceFromPage(title, rawURL)
	if name != "" {
		draft.ServiceName = model.StringPtr(name)
	}
	draft.ServiceCategory = category

	// First price token wins; multi-currency tie-breaks are out of scope
	if len(priceTokens) > 0 {
		if amount, cycle, ok := parsePriceToken(priceTokens[0]); ok {
			draft.Cost = model.Float64Ptr(amount)
			draft.BillingCycle = cycle
		}
	}

	return draft
}

// PriceTokens collects the price-token values from a signal set
func PriceTokens(signals []model.Signal) []string {
	var tokens []string
	for _, s := range signals {
		if s.Kind == model.SignalPriceToken {
			tokens = append(tokens, s.Value)
		}
	}
	return tokens
}

// FindFirstPrice returns the first price-like token in free text, or ""
func FindFirstPrice(text string) string {
	return strings.TrimSpace(priceTokenRe.FindString(text))
}

// KeywordMatches collects the content-keyword values from a signal set
func KeywordMatches(signals []model.Signal) []string {
	var matches []string
	for _, s := range signals {
		if s.Kind == model.SignalContentKeyword {
			matches = append(matches, s.Value)
		}
	}
	return matches
}

func serviceFromPage(title, rawURL string) (name, category string) {
	if parsed, err := url.Parse(rawURL); err == nil {
		host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
		if svc, ok := knownHosts[host]; ok {
			return svc.Name, svc.Category
		}
		name = hostLabel(host)
	}

	// A cleaned title beats a bare host label
	if t := cleanTitle(title); t != "" {
		name = t
	}
	return name, ""
}

// cleanTitle keeps the part of the title before the first separator
// ("Netflix - Watch TV Shows" -> "Netflix")
func cleanTitle(title string) string {
	for _, sep := range []string{" - ", " – ", " — ", " | ", "·", "—"} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	title = strings.TrimSpace(title)
	if len(title) > 60 {
		return ""
	}
	return title
}

// hostLabel turns "example.com" into "Example"
func hostLabel(host string) string {
	label := host
	if idx := strings.Index(host, "."); idx > 0 {
		label = host[:idx]
	}
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// parsePriceToken splits a price token into amount and billing cycle.
// "$99.99/year" -> (99.99, yearly). Unclassified periods are monthly.
func parsePriceToken(token string) (float64, model.BillingCycle, bool) {
	digits := strings.IndexFunc(token, func(r rune) bool { return r >= '0' && r <= '9' })
	if digits < 0 {
		return 0, "", false
	}
	numEnd := digits
	for numEnd < len(token) && (token[numEnd] >= '0' && token[numEnd] <= '9' || token[numEnd] == '.' || token[numEnd] == ',') {
		numEnd++
	}
	numStr := strings.ReplaceAll(token[digits:numEnd], ",", ".")
	amount, err := strconv.ParseFloat(strings.TrimSuffix(numStr, "."), 64)
	if err != nil {
		return 0, "", false
	}

	suffix := token[numEnd:]
	switch {
	case yearlyPeriodRe.MatchString(suffix):
		return amount, model.BillingYearly, true
	case weeklyPeriodRe.MatchString(suffix):
		return amount, model.BillingWeekly, true
	default:
		return amount, model.BillingMonthly, true
	}
}
