package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/subwatchhq/subwatch/internal/llm"
	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/normalize"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNormalizer() *normalize.Normalizer {
	return normalize.NewWithClock(func() time.Time {
		return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	})
}

func newTestPipeline() *Pipeline {
	return New(model.DefaultConfig(), quietLogger()).WithNormalizer(fixedNormalizer())
}

// fakeProvider drives the delegate without a network
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return f.err == nil }

func TestParseText_PatternHit(t *testing.T) {
	p := newTestPipeline()

	resp := p.ParseText(context.Background(), model.ParseRequest{
		Text: "添加amazon prime 服务 一个月6.99 前三个月免费",
	})

	if !resp.Success {
		t.Fatalf("Success = false, message %q", resp.Message)
	}
	draft := resp.ParsedData
	if *draft.ServiceName != "Amazon Prime" {
		t.Errorf("ServiceName = %q", *draft.ServiceName)
	}
	if *draft.MonthlyCost != 6.99 {
		t.Errorf("MonthlyCost = %v", *draft.MonthlyCost)
	}
	if !draft.IsTrial || draft.TrialDurationDays != 90 {
		t.Errorf("trial = %v/%d, want true/90", draft.IsTrial, draft.TrialDurationDays)
	}
	if draft.PaymentDate != "2024-07-01" {
		t.Errorf("PaymentDate = %q", draft.PaymentDate)
	}
}

func TestParseText_NoDelegateConfigured(t *testing.T) {
	p := newTestPipeline()

	// Default config has no delegate; a pattern miss yields the template
	resp := p.ParseText(context.Background(), model.ParseRequest{Text: "some unknown service 12.34"})

	if resp.Success {
		t.Fatal("expected failure on pattern miss without delegate")
	}
	if resp.ParsedData == nil {
		t.Fatal("failed responses still carry the draft template")
	}
	if resp.ParsedData.ServiceName != nil {
		t.Errorf("ServiceName = %v, want nil", resp.ParsedData.ServiceName)
	}
	if resp.ParsedData.MonthlyCost != nil {
		t.Errorf("MonthlyCost = %v, want nil", resp.ParsedData.MonthlyCost)
	}
	if resp.ParsedData.PaymentDate != "2024-07-01" {
		t.Errorf("PaymentDate = %q, want first of next month", resp.ParsedData.PaymentDate)
	}
}

func TestParseText_DelegateFallback(t *testing.T) {
	fake := &fakeProvider{reply: `{"service_name": "Obscure SaaS", "monthly_cost": 12.34}`}
	p := newTestPipeline().WithDelegate(llm.NewDelegateWithProvider(fake, llm.Config{Timeout: 5}))

	resp := p.ParseText(context.Background(), model.ParseRequest{Text: "paying for obscure saas tool"})

	if !resp.Success {
		t.Fatalf("Success = false, message %q", resp.Message)
	}
	if *resp.ParsedData.ServiceName != "Obscure SaaS" {
		t.Errorf("ServiceName = %q", *resp.ParsedData.ServiceName)
	}
	if *resp.ParsedData.MonthlyCost != 12.34 {
		t.Errorf("MonthlyCost = %v", *resp.ParsedData.MonthlyCost)
	}
	if fake.calls != 1 {
		t.Errorf("delegate calls = %d, want 1", fake.calls)
	}
}

func TestParseText_PatternBeatsDelegate(t *testing.T) {
	fake := &fakeProvider{reply: `{"service_name": "Wrong", "monthly_cost": 1}`}
	p := newTestPipeline().WithDelegate(llm.NewDelegateWithProvider(fake, llm.Config{Timeout: 5}))

	resp := p.ParseText(context.Background(), model.ParseRequest{Text: "netflix 15.49"})

	if *resp.ParsedData.ServiceName != "Netflix" {
		t.Errorf("ServiceName = %q", *resp.ParsedData.ServiceName)
	}
	if fake.calls != 0 {
		t.Errorf("delegate calls = %d, want 0 on pattern hit", fake.calls)
	}
}

func TestParseText_DelegateFailure(t *testing.T) {
	fake := &fakeProvider{err: errors.New("connection refused")}
	p := newTestPipeline().WithDelegate(llm.NewDelegateWithProvider(fake, llm.Config{Timeout: 5}))

	resp := p.ParseText(context.Background(), model.ParseRequest{Text: "unknown tool 9.99"})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.ParsedData.MonthlyCost != nil {
		t.Errorf("MonthlyCost = %v, want nil", resp.ParsedData.MonthlyCost)
	}
	if resp.ParsedData.PaymentDate != "2024-07-01" {
		t.Errorf("PaymentDate = %q, want first of next month", resp.ParsedData.PaymentDate)
	}
	if !strings.Contains(resp.Message, "manually") {
		t.Errorf("Message = %q, want manual-completion hint", resp.Message)
	}
}

func TestParseText_DelegateReplyCached(t *testing.T) {
	fake := &fakeProvider{reply: `{"service_name": "Obscure SaaS", "monthly_cost": 12.34}`}
	p := newTestPipeline().WithDelegate(llm.NewDelegateWithProvider(fake, llm.Config{Timeout: 5}))

	req := model.ParseRequest{Text: "paying for obscure saas tool"}
	first := p.ParseText(context.Background(), req)
	second := p.ParseText(context.Background(), req)

	if fake.calls != 1 {
		t.Errorf("delegate calls = %d, want 1 (second hit served from cache)", fake.calls)
	}
	if *first.ParsedData.ServiceName != *second.ParsedData.ServiceName {
		t.Error("cached reply must normalize to the same draft")
	}

	// Different image means a different cache key
	p.ParseText(context.Background(), model.ParseRequest{Text: req.Text, Image: "aGVsbG8="})
	if fake.calls != 2 {
		t.Errorf("delegate calls = %d, want 2 after image variant", fake.calls)
	}
}

func TestParseText_FailedRepliesNotCached(t *testing.T) {
	fake := &fakeProvider{reply: "not json at all"}
	p := newTestPipeline().WithDelegate(llm.NewDelegateWithProvider(fake, llm.Config{Timeout: 5}))

	req := model.ParseRequest{Text: "unknown tool"}
	p.ParseText(context.Background(), req)
	p.ParseText(context.Background(), req)

	if fake.calls != 2 {
		t.Errorf("delegate calls = %d, want 2 (failures are retried, not cached)", fake.calls)
	}
}

func TestScanPage_Candidate(t *testing.T) {
	p := newTestPipeline()

	result := p.ScanPage(model.PageSnapshot{
		URL: "https://netflix.com/signup",
		HTML: `<html><head><title>Netflix</title></head><body>
			<p>Subscribe for $15.49/month</p>
		</body></html>`,
	})

	if !result.Classification.IsCandidate {
		t.Fatal("expected candidate")
	}
	if result.Draft == nil {
		t.Fatal("candidate pages carry a draft")
	}
	if !result.Draft.Success {
		t.Fatalf("draft not successful, reason %q", result.Draft.Reason)
	}
	if *result.Draft.Draft.ServiceName != "Netflix" {
		t.Errorf("ServiceName = %q", *result.Draft.Draft.ServiceName)
	}
	if *result.Draft.Draft.MonthlyCost != 15.49 {
		t.Errorf("MonthlyCost = %v", *result.Draft.Draft.MonthlyCost)
	}
}

func TestScanPage_URLKeywordOnly(t *testing.T) {
	p := newTestPipeline()

	result := p.ScanPage(model.PageSnapshot{
		URL:  "https://netflix.com/signup",
		HTML: "<html><head><title>Netflix</title></head><body>Welcome back</body></html>",
	})

	if !result.Classification.IsCandidate {
		t.Fatal("expected candidate from URL keyword alone")
	}
	if result.Classification.Confidence != 40 {
		t.Errorf("Confidence = %d, want 40", result.Classification.Confidence)
	}
	// No price on the page: the draft exists but is not successful
	if result.Draft == nil {
		t.Fatal("expected draft")
	}
	if result.Draft.Success {
		t.Error("draft without a price must not be successful")
	}
	if result.Draft.Reason != model.FailureNoMonthlyCost {
		t.Errorf("Reason = %q", result.Draft.Reason)
	}
}

func TestScanPage_NoMatch(t *testing.T) {
	p := newTestPipeline()

	result := p.ScanPage(model.PageSnapshot{
		URL:  "https://news.site/article",
		HTML: "<html><body>weather today is sunny</body></html>",
	})

	if result.Classification.IsCandidate {
		t.Error("expected no candidate")
	}
	if result.Draft != nil {
		t.Error("non-candidate pages must not carry a draft")
	}
}
