package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// WithRetry wraps a Provider with a retry policy for transient gateway
// errors (rate limits and 5xx). Auth and client errors fail immediately.
type WithRetry struct {
	inner  Provider
	policy retrypolicy.RetryPolicy[*Response]
}

// NewWithRetry builds the retry wrapper. maxRetries is the number of
// additional attempts after the first failure.
func NewWithRetry(inner Provider, maxRetries int) *WithRetry {
	policy := retrypolicy.NewBuilder[*Response]().
		HandleIf(func(_ *Response, err error) bool {
			var pe *ProviderError
			return errors.As(err, &pe) && pe.IsTransient()
		}).
		WithBackoff(time.Second, 8*time.Second).
		WithMaxRetries(maxRetries).
		OnRetry(func(e failsafe.ExecutionEvent[*Response]) {
			slog.Warn("retrying model gateway call",
				slog.Int("attempt", e.Attempts()),
				slog.Any("error", e.LastError()))
		}).
		Build()
	return &WithRetry{inner: inner, policy: policy}
}

// Chat delegates to the wrapped provider under the retry policy.
func (w *WithRetry) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error) {
	return failsafe.With[*Response](w.policy).
		WithContext(ctx).
		Get(func() (*Response, error) {
			return w.inner.Chat(ctx, messages, tools)
		})
}
