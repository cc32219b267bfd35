// Package pipeline orchestrates both input modalities: free text through
// the pattern parser with delegate fallback, and page snapshots through
// signal extraction and classification. Every path converges on the
// normalizer and terminates in a draft; nothing here is fatal to the
// caller.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/subwatchhq/subwatch/internal/llm"
	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/normalize"
	"github.com/subwatchhq/subwatch/internal/parse"
	"github.com/subwatchhq/subwatch/internal/score"
	"github.com/subwatchhq/subwatch/internal/signal"
)

// Pipeline wires the extraction and parsing stages together
type Pipeline struct {
	fetcher    *Fetcher
	extractor  *signal.Extractor
	classifier *score.Classifier
	registry   *parse.Registry
	delegate   *llm.Delegate // nil when no provider is configured
	normalizer *normalize.Normalizer
	replies    *gocache.Cache // nil when caching is disabled
	logger     *slog.Logger
}

// New creates a pipeline from configuration. A delegate that fails to
// initialize disables the fallback instead of failing the pipeline.
func New(cfg *model.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	delegate, err := llm.NewDelegate(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		logger.Warn("delegate unavailable", "error", err)
		delegate = nil
	}

	var replies *gocache.Cache
	if cfg.Cache.Enabled {
		replies = gocache.New(cfg.Cache.TTL, 10*time.Minute)
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg.HTTP),
		extractor:  signal.NewExtractor(cfg.Scan),
		classifier: score.NewClassifier(),
		registry:   parse.NewRegistry(),
		delegate:   delegate,
		normalizer: normalize.New(),
		replies:    replies,
		logger:     logger,
	}
}

// WithDelegate swaps the delegate, for tests and custom wiring
func (p *Pipeline) WithDelegate(d *llm.Delegate) *Pipeline {
	p.delegate = d
	return p
}

// WithNormalizer swaps the normalizer, for tests that pin the clock
func (p *Pipeline) WithNormalizer(n *normalize.Normalizer) *Pipeline {
	p.normalizer = n
	return p
}

// ParseText runs the free-text path: pattern registry first, delegate on a
// miss, normalizer always. Success=false responses still carry best-effort
// parsed data.
func (p *Pipeline) ParseText(ctx context.Context, req model.ParseRequest) model.ParseResponse {
	if draft, ok := p.registry.Parse(req.Text, time.Now()); ok {
		if draft.ServiceName != nil {
			p.logger.Debug("pattern matcher hit", "service", *draft.ServiceName)
		}
		return p.respond(p.normalizer.Normalize(draft), "")
	}

	if p.delegate == nil {
		p.logger.Debug("pattern miss, no delegate configured")
		return p.respond(p.normalizer.Normalize(llm.TemplateDraft()), "delegate not configured")
	}

	if cached, ok := p.cachedReply(req); ok {
		return p.respond(p.normalizer.Normalize(cached), "")
	}

	result := p.delegate.Parse(ctx, req.Text, req.Image)
	if !result.OK() {
		p.logger.Warn("delegate failed", "kind", result.Failure.Kind, "detail", result.Failure.Detail)
		return p.respond(p.normalizer.Normalize(llm.TemplateDraft()), result.Failure.Error())
	}

	p.storeReply(req, *result.Draft)
	return p.respond(p.normalizer.Normalize(*result.Draft), "")
}

// PageResult is the outcome of one page scan
type PageResult struct {
	Snapshot       model.PageSnapshot         `json:"snapshot"`
	Signals        []model.Signal             `json:"signals"`
	Classification model.ClassificationResult `json:"classification"`
	// Draft is set only when the page classified as a candidate
	Draft *model.NormalizedDraft `json:"draft,omitempty"`
}

// ScanPage runs the page path: signal extraction, classification, and for
// candidate pages a detail pass that builds and normalizes a draft. Pure
// and synchronous.
func (p *Pipeline) ScanPage(snap model.PageSnapshot) PageResult {
	signals := p.extractor.Extract(snap)
	classification := p.classifier.Classify(signals)

	result := PageResult{
		Snapshot:       snap,
		Signals:        signals,
		Classification: classification,
	}

	if classification.IsCandidate {
		draft := signal.DraftFromPage(p.extractor.Title(snap), snap.URL, signal.PriceTokens(signals))
		normalized := p.normalizer.Normalize(draft)
		result.Draft = &normalized
	}

	return result
}

// ScanURL fetches a live page and scans it
func (p *Pipeline) ScanURL(ctx context.Context, rawURL string) (*PageResult, error) {
	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	result := p.ScanPage(model.PageSnapshot{
		URL:  fetched.FinalURL,
		HTML: fetched.HTML,
	})
	return &result, nil
}

func (p *Pipeline) respond(normalized model.NormalizedDraft, failureDetail string) model.ParseResponse {
	resp := model.ParseResponse{
		Success:    normalized.Success,
		ParsedData: &normalized.Draft,
	}

	switch {
	case normalized.Success:
		resp.Message = "subscription parsed"
	case failureDetail != "":
		resp.Message = "delegate failed (" + failureDetail + "); please complete the fields manually"
	case normalized.Reason == model.FailureNoServiceName:
		resp.Message = "unable to resolve the service name; please provide more detail"
	case normalized.Reason == model.FailureNoMonthlyCost:
		resp.Message = "unable to determine the monthly cost; please specify an amount"
	default:
		resp.Message = "unable to parse the subscription; please complete manually"
	}

	return resp
}

func (p *Pipeline) cachedReply(req model.ParseRequest) (model.SubscriptionDraft, bool) {
	if p.replies == nil {
		return model.SubscriptionDraft{}, false
	}
	v, found := p.replies.Get(replyKey(req))
	if !found {
		return model.SubscriptionDraft{}, false
	}
	draft, ok := v.(model.SubscriptionDraft)
	return draft, ok
}

func (p *Pipeline) storeReply(req model.ParseRequest, draft model.SubscriptionDraft) {
	if p.replies == nil {
		return
	}
	p.replies.Set(replyKey(req), draft, gocache.DefaultExpiration)
}

func replyKey(req model.ParseRequest) string {
	hash := sha256.Sum256([]byte(req.Text + "\x00" + req.Image))
	return "subwatch:v1:" + hex.EncodeToString(hash[:])
}
