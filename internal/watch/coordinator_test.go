package watch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/normalize"
	"github.com/subwatchhq/subwatch/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNormalizer() *normalize.Normalizer {
	return normalize.NewWithClock(func() time.Time {
		return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	})
}

func detection(url, title string, prices []string) model.ObserverMessage {
	return model.ObserverMessage{
		Action:        model.ActionPageDetected,
		CorrelationID: "test-correlation",
		Data: model.DetectionData{
			PageTitle:   title,
			URL:         url,
			TriggerType: model.TriggerPageDetected,
			Confidence:  65,
			Prices:      prices,
		},
	}
}

func TestCoordinator_HandlesDetection(t *testing.T) {
	pending := store.NewPendingStore(0)
	c := NewCoordinator(4, pending, fixedNormalizer(), quietLogger())

	results := make(chan model.NormalizedDraft, 1)
	c.OnDraft = func(_ model.ObserverMessage, d model.NormalizedDraft) {
		results <- d
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	if !c.Send(detection("https://netflix.com/signup", "Netflix", []string{"$15.49/month"})) {
		t.Fatal("Send failed")
	}

	select {
	case got := <-results:
		if !got.Success {
			t.Fatalf("expected successful draft, reason %q", got.Reason)
		}
		if *got.Draft.ServiceName != "Netflix" {
			t.Errorf("ServiceName = %q", *got.Draft.ServiceName)
		}
		if *got.Draft.MonthlyCost != 15.49 {
			t.Errorf("MonthlyCost = %v", *got.Draft.MonthlyCost)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for draft")
	}

	stored, ok := pending.Get()
	if !ok {
		t.Fatal("expected pending draft")
	}
	if !stored.Success {
		t.Error("pending draft should be successful")
	}
}

func TestCoordinator_NearbyPriceFallback(t *testing.T) {
	c := NewCoordinator(4, nil, fixedNormalizer(), quietLogger())

	results := make(chan model.NormalizedDraft, 1)
	c.OnDraft = func(_ model.ObserverMessage, d model.NormalizedDraft) {
		results <- d
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	msg := detection("https://netflix.com/signup", "Netflix", nil)
	msg.Data.NearbyPrice = "$9.99/month"
	c.Send(msg)

	select {
	case got := <-results:
		if got.Draft.Cost == nil || *got.Draft.Cost != 9.99 {
			t.Errorf("Cost = %v, want nearby price 9.99", got.Draft.Cost)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for draft")
	}
}

func TestCoordinator_UnresolvedDraftStillStored(t *testing.T) {
	pending := store.NewPendingStore(0)
	c := NewCoordinator(4, pending, fixedNormalizer(), quietLogger())

	done := make(chan struct{})
	c.OnDraft = func(_ model.ObserverMessage, _ model.NormalizedDraft) {
		close(done)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	// No prices anywhere: the draft cannot succeed but is kept for manual
	// completion
	c.Send(detection("https://netflix.com/signup", "Netflix", nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	stored, ok := pending.Get()
	if !ok {
		t.Fatal("expected pending draft")
	}
	if stored.Success {
		t.Error("draft without cost must not be successful")
	}
	if stored.Reason != model.FailureNoMonthlyCost {
		t.Errorf("Reason = %q", stored.Reason)
	}
}

func TestCoordinator_InOrderProcessing(t *testing.T) {
	c := NewCoordinator(8, nil, fixedNormalizer(), quietLogger())

	var order []string
	done := make(chan struct{})
	c.OnDraft = func(msg model.ObserverMessage, _ model.NormalizedDraft) {
		order = append(order, msg.CorrelationID)
		if len(order) == 3 {
			close(done)
		}
	}

	for _, id := range []string{"first", "second", "third"} {
		msg := detection("https://netflix.com/signup", "Netflix", nil)
		msg.CorrelationID = id
		c.Send(msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	want := []string{"first", "second", "third"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCoordinator_FullInboxDrops(t *testing.T) {
	// No consumer running; capacity 1 fills immediately
	c := NewCoordinator(1, nil, fixedNormalizer(), quietLogger())

	if !c.Send(detection("https://a.example/signup", "A", nil)) {
		t.Fatal("first send should succeed")
	}
	if c.Send(detection("https://b.example/signup", "B", nil)) {
		t.Error("second send should report a drop")
	}
}

func TestCoordinator_CloseDrains(t *testing.T) {
	c := NewCoordinator(8, nil, fixedNormalizer(), quietLogger())

	var handled int
	c.OnDraft = func(_ model.ObserverMessage, _ model.NormalizedDraft) {
		handled++
	}

	for i := 0; i < 5; i++ {
		c.Send(detection("https://netflix.com/signup", "Netflix", nil))
	}
	c.Close()

	go c.Run(context.Background())

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after Close")
	}

	if handled != 5 {
		t.Errorf("handled %d messages before exit, want 5", handled)
	}
}
