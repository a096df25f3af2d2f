package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	portssvc "github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// DefaultRateCacheTTL is how long a fetched rate is served before the next
// refresh is allowed.
const DefaultRateCacheTTL = 10 * time.Minute

type cachedRate struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// ForexService converts customer amounts into PKR using a live rate source.
// Rates are cached per currency pair with a TTL; concurrent misses for the
// same pair share a single upstream fetch. Fetch failures are surfaced to all
// waiters and never cached, so one bad pair cannot poison another.
type ForexService struct {
	source portssvc.RateSource
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	rates map[string]cachedRate
	group singleflight.Group
}

// NewForexService creates a ForexService. A non-positive ttl falls back to
// DefaultRateCacheTTL.
func NewForexService(source portssvc.RateSource, ttl time.Duration) *ForexService {
	if ttl <= 0 {
		ttl = DefaultRateCacheTTL
	}
	return &ForexService{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		rates:  make(map[string]cachedRate),
	}
}

// ConvertToPKR converts amount from the given currency into PKR, rounded to
// 2 decimal places (half away from zero). PKR amounts pass through unchanged
// without touching the cache.
func (s *ForexService) ConvertToPKR(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(currency)

	if currency == domain.BaseCurrencyCode {
		return amount, nil
	}

	rate, err := s.resolveRate(ctx, currency)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return amount.Mul(rate).Round(2), nil
}

// resolveRate returns a fresh cached rate or fetches one. The singleflight
// group guarantees exactly one upstream call per pair even when many callers
// miss concurrently; every waiter observes the same result or error.
func (s *ForexService) resolveRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	key := currency + "/" + domain.BaseCurrencyCode

	if rate, ok := s.freshRate(key); ok {
		return rate, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A waiter queued behind the fetch that just completed re-checks the
		// cache instead of refetching.
		if rate, ok := s.freshRate(key); ok {
			return rate, nil
		}

		rate, err := s.source.FetchRate(ctx, currency, domain.BaseCurrencyCode)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.rates[key] = cachedRate{rate: rate, expiresAt: s.now().Add(s.ttl)}
		s.mu.Unlock()

		return rate, nil
	})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to resolve rate for %s: %w", key, err)
	}

	return value.(decimal.Decimal), nil
}

// freshRate returns the cached rate for key if it has not expired. Expired
// entries are refreshed by the next fetch, never extended.
func (s *ForexService) freshRate(key string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.rates[key]
	if !ok || s.now().After(entry.expiresAt) {
		return decimal.Decimal{}, false
	}
	return entry.rate, true
}
