package einvoice

import (
	"go.uber.org/zap"

	"github.com/rezonia/einvoice-engine/internal/service"
)

// Engine converts canonical invoices into e-invoice documents
type Engine struct {
	service *service.Service
}

// EngineOption configures the engine
type EngineOption func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for drift-correction reporting
func WithLogger(log *zap.Logger) EngineOption {
	return func(o *options) {
		o.logger = log
	}
}

// NewEngine creates an engine. Without options it logs nowhere.
func NewEngine(opts ...EngineOption) *Engine {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &Engine{
		service: service.New(service.WithLogger(o.logger)),
	}
}

// Generate converts an invoice into the document for its output format.
// Business-rule violations travel inside the result; only unknown formats
// and unparseable dates return an error.
func (e *Engine) Generate(inv *Invoice) (*GenerationResult, error) {
	return e.service.Generate(inv)
}

// Validate checks an invoice against the business rules of its output
// format without producing a document.
func (e *Engine) Validate(inv *Invoice) (*ValidationResult, error) {
	return e.service.Validate(inv)
}

// GenerateBatch converts multiple invoices concurrently. The result slice
// is index-aligned with the input; the first error is returned after all
// conversions finish.
func (e *Engine) GenerateBatch(invs []*Invoice) ([]*GenerationResult, error) {
	results := make([]*GenerationResult, len(invs))
	errCh := make(chan error, len(invs))

	for i, inv := range invs {
		go func(idx int, inv *Invoice) {
			result, err := e.service.Generate(inv)
			if err != nil {
				errCh <- err
				return
			}
			results[idx] = result
			errCh <- nil
		}(i, inv)
	}

	var firstErr error
	for range invs {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}
