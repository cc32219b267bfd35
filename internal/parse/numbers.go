package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// firstDecimalRe scans for the first bare decimal token. When several
// numbers appear, the first one wins; there is no tie-break policy.
var firstDecimalRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// trialIntentWords detect trial intent bilingually
var trialIntentWords = []string{"free", "trial", "免费", "试用"}

const daysPerMonth = 30

// Duration expressions adjacent to a trial marker are preferred over bare
// ones, so "一个月6.99 前三个月免费" resolves to the three months that are
// actually free.
var trialAdjacentRes = []durationPattern{
	{regexp.MustCompile(`(?:前)?([0-9一二两三四五六七八九十]+)\s*个月[内的]?\s*(?:免费|试用)`), daysPerMonth},
	{regexp.MustCompile(`(?i)free\s+for\s+(\d+)\s+months?`), daysPerMonth},
	{regexp.MustCompile(`(?i)first\s+(\d+)\s+months?\s+free`), daysPerMonth},
	{regexp.MustCompile(`(?i)(\d+)[\s-]*months?\s+(?:free|trial)`), daysPerMonth},
	{regexp.MustCompile(`([0-9一二两三四五六七八九十]+)\s*天\s*(?:免费|试用)`), 1},
	{regexp.MustCompile(`(?i)(\d+)[\s-]*days?\s+(?:free|trial)`), 1},
}

// Bare duration expressions, tried when no adjacent form is present
var bareDurationRes = []durationPattern{
	{regexp.MustCompile(`([0-9一二两三四五六七八九十]+)\s*天`), 1},
	{regexp.MustCompile(`(?i)(\d+)[\s-]*days?\b`), 1},
	{regexp.MustCompile(`([0-9一二两三四五六七八九十]+)\s*个月`), daysPerMonth},
	{regexp.MustCompile(`(?i)(\d+)[\s-]*months?\b`), daysPerMonth},
}

type durationPattern struct {
	re   *regexp.Regexp
	unit int // days per matched count
}

// chineseNumerals covers the numeral words 一 through 十 plus 两
var chineseNumerals = map[rune]int{
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
}

// firstDecimal returns the first decimal number in the text
func firstDecimal(text string) (float64, bool) {
	match := firstDecimalRe.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// hasTrialIntent reports whether the text mentions a free/trial period
func hasTrialIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range trialIntentWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// trialDurationDays extracts an explicit trial duration in days. Month
// counts convert at 30 days per month. Returns 0 when no explicit duration
// is found, letting the matcher apply its own default.
func trialDurationDays(text string) int {
	for _, p := range trialAdjacentRes {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if count, ok := parseCount(m[1]); ok {
				return count * p.unit
			}
		}
	}

	for _, p := range bareDurationRes {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if count, ok := parseCount(m[1]); ok {
				return count * p.unit
			}
		}
	}

	return 0
}

// parseCount reads an ASCII integer or a Chinese numeral word 一..十
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		if n, ok := chineseNumerals[runes[0]]; ok {
			return n, true
		}
	}
	return 0, false
}
