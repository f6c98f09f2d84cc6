package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/infigaming-com/go-money/request"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type httpRateProvider struct {
	lg           *zap.Logger
	url          string
	apiKey       string
	apiKeySecret string
	timeout      time.Duration
}

type getRatesRequest struct {
	Timestamp int64    `json:"timestamp"`
	Base      string   `json:"base"`
	Quotes    []string `json:"quotes"`
}

// NewHTTPRateProvider returns a provider that POSTs signed JSON
// {"timestamp","base","quotes"} to url and expects a JSON array of Rate.
func NewHTTPRateProvider(lg *zap.Logger, url, apiKey, apiKeySecret string, timeout time.Duration) RateProvider {
	if lg == nil {
		lg = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpRateProvider{
		lg:           lg,
		url:          url,
		apiKey:       apiKey,
		apiKeySecret: apiKeySecret,
		timeout:      timeout,
	}
}

func (p *httpRateProvider) GetRates(ctx context.Context, base string, quotes []string, timestamp int64) ([]Rate, error) {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}
	rateRequest := &getRatesRequest{
		Timestamp: timestamp,
		Base:      base,
		Quotes:    quotes,
	}
	statusCode, responseBody, err := request.PostJson(
		ctx,
		p.url,
		rateRequest,
		request.WithLogger(p.lg),
		request.WithRequestTimeout(p.timeout),
		request.WithRequestSigner(
			request.HmacSha256Signer,
			request.HmacSha256SignerKeys{
				ApiKeyHeader:    "X-API-KEY",
				SignatureHeader: "X-SIGNATURE",
				ApiKey:          p.apiKey,
				ApiKeySecret:    p.apiKeySecret,
			},
		),
	)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, ErrUnexpectedStatus.WithDetails(fmt.Sprintf("status code: %d, response: %s", statusCode, string(responseBody)))
	}
	var rates []Rate
	if err := json.Unmarshal(responseBody, &rates); err != nil {
		return nil, ErrInvalidResponse.WithCause(err)
	}
	return rates, nil
}

func (p *httpRateProvider) GetRate(ctx context.Context, base, quote string, timestamp int64) (*Rate, error) {
	rates, err := p.GetRates(ctx, base, []string{quote}, timestamp)
	if err != nil {
		return nil, err
	}
	r, ok := lo.Find(rates, func(r Rate) bool {
		return r.Base == base && r.Quote == quote
	})
	if !ok {
		return nil, ErrRateNotFound.WithDetails(base + "/" + quote)
	}
	return &r, nil
}

func (p *httpRateProvider) GetRatesMap(ctx context.Context, base string, quotes []string, timestamp int64) (map[string]Rate, error) {
	rates, err := p.GetRates(ctx, base, quotes, timestamp)
	if err != nil {
		return nil, err
	}
	return ratesByQuote(rates), nil
}

func ratesByQuote(rates []Rate) map[string]Rate {
	return lo.KeyBy(rates, func(r Rate) string {
		return r.Quote
	})
}
