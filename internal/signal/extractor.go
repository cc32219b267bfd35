// Package signal scans a page snapshot for discrete pieces of
// subscription/payment evidence. The scan is pure and synchronous: no
// network, no blocking calls, and it always returns a (possibly empty)
// signal set.
package signal

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/subwatchhq/subwatch/internal/model"
)

// Extractor produces a bounded signal set from a page snapshot
type Extractor struct {
	maxContentChars int
	maxPriceTokens  int
}

// NewExtractor creates an extractor with the given scan bounds
func NewExtractor(cfg model.ScanConfig) *Extractor {
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 5000
	}
	maxPrices := cfg.MaxPriceTokens
	if maxPrices <= 0 {
		maxPrices = 5
	}
	return &Extractor{
		maxContentChars: maxChars,
		maxPriceTokens:  maxPrices,
	}
}

// Extract scans URL, visible text, and DOM structure and returns the signal
// set. A snapshot that fails to parse as HTML still gets the URL and text
// passes against the raw markup.
func (e *Extractor) Extract(snap model.PageSnapshot) []model.Signal {
	var signals []model.Signal

	// URL keyword signal: boolean, first match only
	lowerURL := strings.ToLower(snap.URL)
	for _, kw := range urlKeywords {
		if strings.Contains(lowerURL, kw) {
			signals = append(signals, model.Signal{
				Kind:    model.SignalURLKeyword,
				Value:   kw,
				Context: snap.URL,
			})
			break
		}
	}

	doc, err := html.Parse(strings.NewReader(snap.HTML))

	text := snap.HTML
	title := snap.Title
	if err == nil {
		text = extractVisibleText(doc)
		if title == "" {
			title = documentTitle(doc)
		}
	}
	text = truncate(title+" "+text, e.maxContentChars)
	lowerText := strings.ToLower(text)

	// Content keyword signals: one per distinct hit
	for _, kw := range contentKeywords {
		if strings.Contains(lowerText, kw) {
			signals = append(signals, model.Signal{
				Kind:  model.SignalContentKeyword,
				Value: kw,
			})
		}
	}

	// Price-token signals, capped
	for _, loc := range priceTokenRe.FindAllStringIndex(text, e.maxPriceTokens) {
		signals = append(signals, model.Signal{
			Kind:    model.SignalPriceToken,
			Value:   strings.TrimSpace(text[loc[0]:loc[1]]),
			Context: contextWindow(text, loc[0], loc[1], 30),
		})
	}

	// Form/button presence: one signal, DOM pass only
	if err == nil {
		if marker := findSubscriptionForm(doc); marker != "" {
			signals = append(signals, model.Signal{
				Kind:  model.SignalFormPresence,
				Value: marker,
			})
		}
	}

	return signals
}

// Title returns the page title, recovering it from the document when the
// snapshot carries none.
func (e *Extractor) Title(snap model.PageSnapshot) string {
	if snap.Title != "" {
		return snap.Title
	}
	doc, err := html.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return ""
	}
	return documentTitle(doc)
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func documentTitle(doc *html.Node) string {
	node := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if node == nil || node.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(node.FirstChild.Data)
}

// findSubscriptionForm walks the DOM for a form or button matching the
// fixed marker lists. Returns a "tag:marker" description, or "" when none
// match.
func findSubscriptionForm(doc *html.Node) string {
	var marker string

	findFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "form":
			haystack := strings.ToLower(strings.Join([]string{
				attr(n, "id"), attr(n, "class"), attr(n, "name"), attr(n, "action"),
			}, " "))
			for _, m := range formMarkers {
				if strings.Contains(haystack, m) {
					marker = "form:" + m
					return true
				}
			}
		case "button", "input":
			if n.Data == "input" {
				t := strings.ToLower(attr(n, "type"))
				if t != "submit" && t != "button" {
					return false
				}
			}
			haystack := strings.ToLower(strings.Join([]string{
				nodeText(n), attr(n, "value"), attr(n, "class"), attr(n, "id"),
			}, " "))
			for _, m := range buttonMarkers {
				if strings.Contains(haystack, m) {
					marker = n.Data + ":" + m
					return true
				}
			}
		}
		return false
	})

	return marker
}

func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(nodeText(c))
		buf.WriteString(" ")
	}
	return strings.TrimSpace(buf.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary
	cut := max
	for cut > 0 && cut < len(s) && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

func contextWindow(text string, start, end, pad int) string {
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	for lo < len(text) && text[lo]&0xC0 == 0x80 {
		lo++
	}
	hi := end + pad
	if hi > len(text) {
		hi = len(text)
	}
	for hi < len(text) && text[hi]&0xC0 == 0x80 {
		hi++
	}
	return strings.TrimSpace(text[lo:hi])
}
