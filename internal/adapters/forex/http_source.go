package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultFetchTimeout bounds a single rate fetch against the upstream API.
const DefaultFetchTimeout = 10 * time.Second

// HTTPSource fetches live exchange rates from a forex HTTP API
// (GET {base}/latest?base=X&symbols=Y with an "apikey" header).
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource. A non-positive timeout falls back to
// DefaultFetchTimeout. baseURL and apiKey may be empty; the configuration
// error is reported on first use so the service can still boot for endpoints
// that never convert.
func NewHTTPSource(baseURL, apiKey string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type latestRatesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRate fetches the conversion rate from fromCurrency to toCurrency.
// Missing configuration and unusable responses surface as
// apperrors.ErrConversionConfig; network failures, timeouts and non-2xx
// statuses as apperrors.ErrConversionUpstream.
func (s *HTTPSource) FetchRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if s.baseURL == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: forex API base URL is not configured", apperrors.ErrConversionConfig)
	}
	if s.apiKey == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: forex API key is not configured", apperrors.ErrConversionConfig)
	}

	endpoint := fmt.Sprintf("%s/latest?base=%s&symbols=%s",
		s.baseURL, url.QueryEscape(fromCurrency), url.QueryEscape(toCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid forex API request: %v", apperrors.ErrConversionConfig, err)
	}
	req.Header.Set("apikey", s.apiKey)

	res, err := s.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", apperrors.ErrConversionUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decimal.Decimal{}, fmt.Errorf("%w: forex API returned status %d", apperrors.ErrConversionUpstream, res.StatusCode)
	}

	var payload latestRatesResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: malformed forex API response: %v", apperrors.ErrConversionConfig, err)
	}
	if payload.Rates == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: forex API response missing 'rates'", apperrors.ErrConversionConfig)
	}

	rate, ok := payload.Rates[toCurrency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s rate not found in forex API response", apperrors.ErrConversionConfig, toCurrency)
	}
	return rate, nil
}
