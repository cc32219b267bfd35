package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/pipeline"
)

var (
	scanTimeout  time.Duration
	scanUA       string
	scanMaxBytes int64
	scanNoRobots bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url|file.html>",
	Short: "Scan a page for subscription/payment signals",
	Long: `Scan extracts signals from a page (URL keywords, bilingual content
keywords, price tokens, subscription-shaped forms), classifies them into a
candidate decision with a 0-100 confidence score, and for candidate pages
builds a normalized subscription draft.

A local .html path is scanned offline; anything else is fetched live,
subject to robots.txt and a per-host rate limit.

Example:
  subwatch scan https://netflix.com/signup
  subwatch scan pricing-page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Second, "fetch timeout")
	scanCmd.Flags().StringVar(&scanUA, "ua", "", "HTTP User-Agent override")
	scanCmd.Flags().Int64Var(&scanMaxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&scanNoRobots, "no-robots", false, "skip robots.txt checks")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.HTTP.Timeout = scanTimeout
	cfg.HTTP.MaxBodyBytes = scanMaxBytes
	if scanUA != "" {
		cfg.HTTP.UserAgent = scanUA
	}
	if scanNoRobots {
		cfg.HTTP.RespectRobots = false
	}

	p := pipeline.New(cfg, newLogger())

	var result *pipeline.PageResult
	if isLocalFile(target) {
		raw, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		r := p.ScanPage(model.PageSnapshot{URL: "file://" + target, HTML: string(raw)})
		result = &r
	} else {
		var err error
		result, err = p.ScanURL(ctx, target)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}

	// The raw HTML is noise in the report
	result.Snapshot.HTML = ""

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))

	if verbose {
		fmt.Fprintf(os.Stderr, "\ncandidate=%v confidence=%d signals=%d\n",
			result.Classification.IsCandidate, result.Classification.Confidence, len(result.Signals))
	}

	return nil
}

func isLocalFile(target string) bool {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return false
	}
	_, err := os.Stat(target)
	return err == nil
}
