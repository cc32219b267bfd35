package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/normalize"
	"github.com/subwatchhq/subwatch/internal/store"
	"github.com/subwatchhq/subwatch/internal/watch"
)

// observerEvent is one page-observer event on stdin, newline-delimited JSON
type observerEvent struct {
	Event   string            `json:"event"` // page | click | submit | url
	URL     string            `json:"url,omitempty"`
	Title   string            `json:"title,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Element model.ElementInfo `json:"element,omitempty"`
	Nearby  string            `json:"nearby,omitempty"`
}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Consume page-observer events from stdin",
	Long: `Watch reads newline-delimited JSON observer events from stdin, drives a
per-page session state machine over them, and hands each detection to the
single-consumer coordinator. Every normalized draft is printed as JSON and
stored in the pending hand-off slot.

Events:
  {"event":"page","url":"...","title":"...","html":"..."}   page load
  {"event":"click","element":{"tag":"button","text":"Subscribe"},"nearby":"$9.99/month"}
  {"event":"submit","element":{"tag":"form","id":"checkout"}}
  {"event":"url","url":"https://checkout.stripe.com/pay/..."}

A "page" event starts a new session; detection latches reset with it.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := buildConfig()
	logger := newLogger()

	pending := store.NewPendingStore(cfg.Cache.PendingTTL)
	coordinator := watch.NewCoordinator(16, pending, normalize.New(), logger)

	coordinator.OnDraft = func(_ model.ObserverMessage, d model.NormalizedDraft) {
		out, err := json.Marshal(d)
		if err != nil {
			return
		}
		fmt.Println(string(out))
	}

	go coordinator.Run(ctx)

	session := watch.NewSession(cfg.Scan)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev observerEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			fmt.Fprintf(os.Stderr, "skipping malformed event: %v\n", err)
			continue
		}

		var msg *model.ObserverMessage
		switch ev.Event {
		case "page":
			// New page lifetime: fresh session, fresh latches
			session = watch.NewSession(cfg.Scan)
			msg = session.PageLoaded(model.PageSnapshot{URL: ev.URL, Title: ev.Title, HTML: ev.HTML})
		case "click":
			msg = session.Clicked(ev.Element, ev.Nearby)
		case "submit":
			msg = session.FormSubmitted(ev.Element)
		case "url":
			msg = session.URLChanged(ev.URL)
		default:
			fmt.Fprintf(os.Stderr, "skipping unknown event: %q\n", ev.Event)
		}

		if msg != nil {
			coordinator.Send(*msg)
		}
	}

	// Drain queued detections before exiting
	coordinator.Close()
	<-coordinator.Done()

	return scanner.Err()
}
