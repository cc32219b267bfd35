package llm

import (
	"context"
	"errors"
	"time"
)

// Delegate wraps a provider with the fixed parsing contract: text (plus
// optional image) in, best-effort JSON-shaped draft out, fallible. No
// retries; a failed attempt is terminal for that attempt.
type Delegate struct {
	provider Provider
	config   Config
}

// NewDelegate creates a delegate from configuration. Returns nil when no
// provider is configured.
func NewDelegate(config Config) (*Delegate, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Delegate{provider: provider, config: config}, nil
}

// NewDelegateWithProvider wraps an existing provider, for tests and custom
// wiring
func NewDelegateWithProvider(provider Provider, config Config) *Delegate {
	return &Delegate{provider: provider, config: config}
}

// Provider exposes the underlying provider name
func (d *Delegate) Provider() string {
	return d.provider.Name()
}

// Parse sends the text (and optional base64 image) to the delegate and
// decodes the reply. Network failure, timeout, non-JSON, and missing keys
// all collapse into a failed Result.
func (d *Delegate) Parse(ctx context.Context, text, imageB64 string) Result {
	timeout := time.Duration(d.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := d.provider.Complete(ctxWithTimeout, CompletionRequest{
		Prompt:   BuildPrompt(text),
		ImageB64: imageB64,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctxWithTimeout.Err() != nil {
			return ParseError(FailTimeout, err.Error())
		}
		return ParseError(FailNetwork, err.Error())
	}

	return DecodeReply(reply)
}
