package reputation

import "errors"

var (
	// ErrQuotaExceeded means the persisted daily budget is spent. No
	// network call is made once this fires.
	ErrQuotaExceeded = errors.New("daily request quota exhausted")

	// ErrAuth maps a provider 401: invalid or expired credentials.
	ErrAuth = errors.New("api key invalid or expired")
)

// RateLimitedError maps a provider-side HTTP 429, distinct from our own
// quota bookkeeping.
type RateLimitedError struct {
	Provider string
}

func (e *RateLimitedError) Error() string {
	return e.Provider + " rate limit exceeded, try again later"
}

func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
