package llm

import "context"

// Friendly model names accepted by the hosted generation service.
const (
	ModelBasic = "basic"
	ModelUltra = "ultra"
)

// Attachment is an optional file sent alongside the prompt; the service
// extracts its text remotely.
type Attachment struct {
	Filename string
	Data     []byte
}

// Option allows optional parameters like model selection and token budget.
type Option func(*Options)

type Options struct {
	Model        string
	MaxNewTokens int
	Attachment   *Attachment
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxNewTokens(n int) Option {
	return func(o *Options) {
		o.MaxNewTokens = n
	}
}

func WithAttachment(filename string, data []byte) Option {
	return func(o *Options) {
		o.Attachment = &Attachment{Filename: filename, Data: data}
	}
}

// Provider is the contract for the text-generation backend. The caller
// treats it as one opaque asynchronous operation: a prompt goes out, a
// response or an error comes back.
type Provider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// SemanticError is a 2xx reply whose payload reports failure: the success
// flag was absent or falsy. Reason carries the server-provided error string,
// or the generic fallback when the server sent none.
type SemanticError struct {
	Reason string
}

func (e *SemanticError) Error() string {
	return e.Reason
}
