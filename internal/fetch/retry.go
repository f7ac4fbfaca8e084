package fetch

import (
	"io"
	"net/http"
	"time"
)

// RetryPolicy drives transparent retries inside the transport. Only GET
// requests are eligible. The delay doubles after every retry.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
	Statuses   []int

	// Sleep is swapped out in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultRetryPolicy retries 429 and the 5xx gateway/overload statuses up to
// five times, starting at 0.8s between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		Backoff:    800 * time.Millisecond,
		Statuses:   []int{429, 500, 502, 503, 504},
	}
}

func (p RetryPolicy) transient(code int) bool {
	for _, s := range p.Statuses {
		if s == code {
			return true
		}
	}

	return false
}

type retryTransport struct {
	base   http.RoundTripper
	policy RetryPolicy
	log    debugLogger
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.policy.MaxRetries <= 0 {
		return t.base.RoundTrip(req)
	}

	sleep := t.policy.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	delay := t.policy.Backoff
	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		resp, err = t.base.RoundTrip(req.Clone(req.Context()))
		if err == nil && !t.policy.transient(resp.StatusCode) {
			return resp, nil
		}
		if attempt == t.policy.MaxRetries {
			// Budget exhausted: the caller gets whatever the last
			// attempt produced.
			return resp, err
		}

		if t.log != nil {
			if err != nil {
				t.log.Debugf("retry %d/%d for %s after error: %v\n",
					attempt+1, t.policy.MaxRetries, req.URL, err)
			} else {
				t.log.Debugf("retry %d/%d for %s after HTTP %d\n",
					attempt+1, t.policy.MaxRetries, req.URL, resp.StatusCode)
			}
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}

		sleep(delay)
		delay *= 2
	}
}
