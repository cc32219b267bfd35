package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/pipeline"
)

var (
	parseImagePath   string
	parseLLMProvider string
	parseLLMModel    string
	parseLLMBaseURL  string
	parseTimeout     time.Duration
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse a free-text subscription description into a draft",
	Long: `Parse runs the free-text pipeline: the ordered pattern registry first,
then the remote delegate on a miss, and the normalizer always.

The result is printed as JSON. success=false still carries best-effort
parsed data with nulls for unresolved fields.

Example:
  subwatch parse "netflix premium $22.99 a month"
  subwatch parse "添加amazon prime 服务 一个月6.99 前三个月免费"
  subwatch parse "some receipt" --image receipt.png --llm openrouter`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseImagePath, "image", "", "attach an image file (multimodal delegate input)")
	parseCmd.Flags().StringVar(&parseLLMProvider, "llm", "", "delegate provider (openai, openrouter, ollama; empty disables)")
	parseCmd.Flags().StringVar(&parseLLMModel, "llm-model", "", "delegate model name")
	parseCmd.Flags().StringVar(&parseLLMBaseURL, "llm-base-url", "", "delegate base URL override")
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 45*time.Second, "overall parse timeout")
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	cfg := buildConfig()
	if parseLLMProvider != "" {
		cfg.LLM.Provider = parseLLMProvider
	}
	if parseLLMModel != "" {
		cfg.LLM.Model = parseLLMModel
	}
	if parseLLMBaseURL != "" {
		cfg.LLM.BaseURL = parseLLMBaseURL
	}

	req := model.ParseRequest{Text: args[0]}
	if parseImagePath != "" {
		raw, err := os.ReadFile(parseImagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		req.Image = base64.StdEncoding.EncodeToString(raw)
	}

	p := pipeline.New(cfg, newLogger())
	resp := p.ParseText(ctx, req)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	fmt.Println(string(out))

	if verbose && !resp.Success {
		fmt.Fprintf(os.Stderr, "\nDraft incomplete: %s\n", resp.Message)
	}

	return nil
}

// newLogger builds the slog logger the long-lived components use
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
