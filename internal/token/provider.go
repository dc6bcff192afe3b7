package token

import (
	"context"
	"strings"
	"time"

	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

// SessionSource obtains the current session's access token from the identity
// SDK. Implementations own caching and refresh; the provider only adds retry
// and shape validation on top.
type SessionSource interface {
	Token(ctx context.Context) (string, error)
}

// RetryPolicy controls how token retrieval retries transient failures.
// The wait before attempt n is n times BaseDelay (linear backoff).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the retry policy used when none is configured
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// Provider retrieves bearer credentials for API calls with bounded retry on
// transient failure
type Provider struct {
	source SessionSource
	policy RetryPolicy
	logger *logger.Logger

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProvider creates a token provider on top of a session source
func NewProvider(source SessionSource, policy RetryPolicy, log *logger.Logger) *Provider {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &Provider{
		source: source,
		policy: policy,
		logger: log,
		sleep:  sleepCtx,
	}
}

// GetAccessToken returns a validated bearer token for the current session.
// Transient failures (token not ready, network) are retried up to the
// configured attempt count; hard session failures surface immediately.
func (p *Provider) GetAccessToken(ctx context.Context) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		tok, err := p.source.Token(ctx)
		if err == nil {
			if err := ValidateFormat(tok); err != nil {
				p.logger.WithError(err).Error("Session source returned a malformed token")
				return "", err
			}
			return tok, nil
		}

		lastErr = err
		if !errors.IsRetryable(err) {
			p.logger.WithError(err).Debug("Token retrieval failed with non-retryable error")
			return "", err
		}

		p.logger.WithFields(map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": p.policy.MaxAttempts,
		}).Debug("Token not available yet, will retry")

		if attempt < p.policy.MaxAttempts {
			if err := p.sleep(ctx, time.Duration(attempt)*p.policy.BaseDelay); err != nil {
				return "", errors.NewInternalError("token retrieval cancelled", err)
			}
		}
	}

	p.logger.WithError(lastErr).Warn("Token retrieval exhausted all attempts")
	return "", lastErr
}

// ValidateFormat checks the credential shape: a signed token has exactly 3
// segments, an encrypted token exactly 5. Anything else is rejected before use.
func ValidateFormat(tok string) error {
	segments := strings.Count(tok, ".") + 1
	if tok == "" {
		segments = 0
	}
	if segments != 3 && segments != 5 {
		return errors.NewInvalidTokenFormatError(segments)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
