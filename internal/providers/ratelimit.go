package providers

import (
	"net/http"

	"golang.org/x/time/rate"
)

// limitedTransport takes one limiter token per outgoing request, so a
// date-range search that fans out into several upstream calls pays for each.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// RateLimitedClient returns a copy of base whose requests share one token
// bucket. A request whose context ends while waiting fails without being
// sent; requests are never retried. rps <= 0 returns base unchanged.
func RateLimitedClient(base *http.Client, rps float64, burst int) *http.Client {
	if rps <= 0 {
		return base
	}
	if burst < 1 {
		burst = 1
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c := *base
	c.Transport = &limitedTransport{
		base:    rt,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
	return &c
}
