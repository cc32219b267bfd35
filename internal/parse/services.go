package parse

import (
	"strings"
	"time"

	"github.com/subwatchhq/subwatch/internal/model"
)

// keywordMatcher matches when every keyword appears in the text. Extraction
// is the shared routine: generic price scan with a per-service default,
// bilingual trial detection, and duration parsing.
type keywordMatcher struct {
	name        string
	category    string
	keywords    []string
	defaultCost float64
	// trialDays is used when trial intent is present but no explicit
	// duration is found
	trialDays int
}

func (m *keywordMatcher) Name() string { return "service:" + m.name }

func (m *keywordMatcher) Match(lowerText string) bool {
	for _, kw := range m.keywords {
		if !strings.Contains(lowerText, kw) {
			return false
		}
	}
	return true
}

func (m *keywordMatcher) Extract(text string, _ time.Time) model.SubscriptionDraft {
	cost := m.defaultCost
	if amount, ok := firstDecimal(text); ok {
		cost = amount
	}

	draft := model.SubscriptionDraft{
		ServiceName:     model.StringPtr(m.name),
		ServiceCategory: m.category,
		Cost:            model.Float64Ptr(cost),
		BillingCycle:    model.BillingMonthly,
	}

	if hasTrialIntent(text) {
		draft.IsTrial = true
		days := trialDurationDays(text)
		if days == 0 {
			days = m.trialDays
		}
		draft.TrialDurationDays = days
	}

	return draft
}

// builtinMatchers returns the built-in service table in evaluation order
func builtinMatchers() []Matcher {
	return []Matcher{
		&keywordMatcher{
			name:        "Amazon Prime",
			category:    "Streaming",
			keywords:    []string{"amazon", "prime"},
			defaultCost: 6.99,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "Netflix",
			category:    "Streaming",
			keywords:    []string{"netflix"},
			defaultCost: 15.49,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "Spotify",
			category:    "Music",
			keywords:    []string{"spotify"},
			defaultCost: 11.99,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "YouTube Premium",
			category:    "Streaming",
			keywords:    []string{"youtube"},
			defaultCost: 13.99,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "Disney+",
			category:    "Streaming",
			keywords:    []string{"disney"},
			defaultCost: 9.99,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "iCloud+",
			category:    "Cloud",
			keywords:    []string{"icloud"},
			defaultCost: 2.99,
			trialDays:   30,
		},
		&keywordMatcher{
			name:        "ChatGPT Plus",
			category:    "Software",
			keywords:    []string{"chatgpt"},
			defaultCost: 20,
			trialDays:   30,
		},
	}
}
