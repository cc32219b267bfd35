package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstDecimal(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"costs 6.99 a month", 6.99, true},
		{"15.49 or 19.99", 15.49, true}, // first number wins
		{"price is 20", 20, true},
		{"一个月6.99", 6.99, true},
		{"no numbers at all", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := firstDecimal(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestHasTrialIntent(t *testing.T) {
	assert.True(t, hasTrialIntent("30 day free trial"))
	assert.True(t, hasTrialIntent("Free for students"))
	assert.True(t, hasTrialIntent("前三个月免费"))
	assert.True(t, hasTrialIntent("试用一周"))
	assert.False(t, hasTrialIntent("standard monthly plan"))
}

func TestTrialDurationDays_ChineseMonths(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"一个月免费", 30},
		{"两个月免费", 60},
		{"三个月免费", 90},
		{"前三个月免费", 90},
		{"十个月试用", 300},
		{"3个月免费", 90},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trialDurationDays(tt.text), tt.text)
	}
}

func TestTrialDurationDays_Days(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"七天免费", 7},
		{"30天试用", 30},
		{"7 days free", 7},
		{"14-day trial", 14},
		{"free trial for 7 days", 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trialDurationDays(tt.text), tt.text)
	}
}

func TestTrialDurationDays_EnglishMonths(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"free for 3 months", 90},
		{"first 2 months free", 60},
		{"3 months trial", 90},
		{"1 month free", 30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trialDurationDays(tt.text), tt.text)
	}
}

func TestTrialDurationDays_TrialAdjacentPreferred(t *testing.T) {
	// The billing period ("一个月6.99") must not shadow the free period
	assert.Equal(t, 90, trialDurationDays("一个月6.99 前三个月免费"))
}

func TestTrialDurationDays_NoDuration(t *testing.T) {
	assert.Equal(t, 0, trialDurationDays("free trial"))
	assert.Equal(t, 0, trialDurationDays("免费试用"))
	assert.Equal(t, 0, trialDurationDays(""))
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"30", 30, true},
		{"一", 1, true},
		{"两", 2, true},
		{"三", 3, true},
		{"十", 10, true},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseCount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
