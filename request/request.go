package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/infigaming-com/go-money/util"
	"go.uber.org/zap"
)

var (
	httpClient *http.Client
	once       sync.Once
)

type requestOption struct {
	lg                   *zap.Logger
	debugEnabled         bool
	queryParams          map[string]string
	requestHeaders       map[string]string
	requestBody          []byte
	signer               RequestSigner
	signerKeys           any
	correlationIdKey     string
	correlationId        string
	requestTimeout       time.Duration
	slowRequestThreshold time.Duration
	maxRetries           int
	retryBackoff         time.Duration
}

type Option interface {
	apply(option *requestOption) error
}

type optionFunc func(option *requestOption) error

func (f optionFunc) apply(option *requestOption) error {
	return f(option)
}

func defaultRequestOption() *requestOption {
	return &requestOption{
		lg:                   zap.L(),
		queryParams:          make(map[string]string),
		requestHeaders:       make(map[string]string),
		correlationIdKey:     "X-Correlation-ID",
		requestTimeout:       3 * time.Second,
		slowRequestThreshold: 5 * time.Second,
		retryBackoff:         time.Second,
	}
}

func WithLogger(lg *zap.Logger) Option {
	return optionFunc(func(option *requestOption) error {
		if lg != nil {
			option.lg = lg
		}
		return nil
	})
}

func WithDebugEnabled(debugEnabled bool) Option {
	return optionFunc(func(option *requestOption) error {
		option.debugEnabled = debugEnabled
		return nil
	})
}

func WithQueryParams(queryParams map[string]string) Option {
	return optionFunc(func(option *requestOption) error {
		maps.Copy(option.queryParams, queryParams)
		return nil
	})
}

func WithRequestHeaders(requestHeaders map[string]string) Option {
	return optionFunc(func(option *requestOption) error {
		maps.Copy(option.requestHeaders, requestHeaders)
		return nil
	})
}

func WithCorrelationId(correlationIdKey, correlationId string) Option {
	return optionFunc(func(option *requestOption) error {
		option.correlationIdKey = correlationIdKey
		option.correlationId = correlationId
		return nil
	})
}

func WithRequestBody(requestBody []byte) Option {
	return optionFunc(func(option *requestOption) error {
		option.requestBody = requestBody
		return nil
	})
}

func WithRequestBodyFromJson(requestBody any) Option {
	return optionFunc(func(option *requestOption) error {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			option.lg.Error("[HTTP-REQUEST-ERROR: failed to marshal request body]",
				zap.Error(err),
				zap.Any("requestBody", requestBody),
			)
			return ErrInvalidRequestBody.WithCause(err)
		}
		option.requestBody = jsonBody
		return nil
	})
}

func WithRequestSigner(requestSigner RequestSigner, signerKeys any) Option {
	return optionFunc(func(option *requestOption) error {
		option.signer = requestSigner
		option.signerKeys = signerKeys
		return nil
	})
}

func WithRequestTimeout(requestTimeout time.Duration) Option {
	return optionFunc(func(option *requestOption) error {
		option.requestTimeout = requestTimeout
		return nil
	})
}

func WithSlowRequestThreshold(slowRequestThreshold time.Duration) Option {
	return optionFunc(func(option *requestOption) error {
		if slowRequestThreshold <= 0 {
			return ErrInvalidSlowRequestThreshold.WithDetails(slowRequestThreshold.String())
		}
		option.slowRequestThreshold = slowRequestThreshold
		return nil
	})
}

// WithRetry enables retry with specified max attempts.
// Default is 0 (no retry). If maxRetries > 0, the request will be retried
// up to maxRetries times on transient errors (timeout, connection refused, etc.)
func WithRetry(maxRetries int) Option {
	return optionFunc(func(option *requestOption) error {
		if maxRetries < 0 {
			maxRetries = 0
		}
		option.maxRetries = maxRetries
		return nil
	})
}

// WithRetryBackoff sets the base backoff; attempt n waits (n-1) * backoff.
func WithRetryBackoff(backoff time.Duration) Option {
	return optionFunc(func(option *requestOption) error {
		option.retryBackoff = backoff
		return nil
	})
}

func getHttpClient() *http.Client {
	once.Do(func() {
		httpClient = &http.Client{
			Timeout: 0,
		}
	})
	return httpClient
}

// isRetryableError checks if the error is a transient error that can be retried
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable")
}

func Request(ctx context.Context, method string, requestUrl string, options ...Option) (httpStatusCode int, responseBody []byte, err error) {
	option := defaultRequestOption()
	for _, opt := range options {
		if err := opt.apply(option); err != nil {
			return 0, nil, err
		}
	}

	maxAttempts := option.maxRetries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * option.retryBackoff
			option.lg.Info("[HTTP-REQUEST-RETRY]",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
				zap.Duration("backoff", backoff),
				zap.String("method", method),
				zap.String("url", requestUrl),
			)

			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		httpStatusCode, responseBody, err = doRequest(ctx, method, requestUrl, option)
		if err == nil {
			return httpStatusCode, responseBody, nil
		}
		if !isRetryableError(err) || attempt == maxAttempts {
			return httpStatusCode, responseBody, err
		}

		option.lg.Warn("[HTTP-REQUEST-RETRYABLE-ERROR]",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.String("method", method),
			zap.String("url", requestUrl),
		)
	}

	return 0, nil, fmt.Errorf("max retries exceeded: %w", err)
}

// doRequest performs a single HTTP request attempt
func doRequest(ctx context.Context, method string, requestUrl string, option *requestOption) (httpStatusCode int, responseBody []byte, err error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, option.requestTimeout)
	defer cancel()

	var bodyReader io.Reader
	if option.requestBody != nil {
		bodyReader = bytes.NewReader(option.requestBody)
	}
	req, err := http.NewRequestWithContext(timeoutCtx, method, requestUrl, bodyReader)
	if err != nil {
		option.lg.Error("[HTTP-REQUEST-ERROR: failed to create request]",
			zap.Error(err),
			zap.String("method", method),
			zap.String("url", requestUrl),
		)
		return 0, nil, ErrFailedToCreateRequest.WithCause(err)
	}

	query := req.URL.Query()
	for k, v := range option.queryParams {
		query.Add(k, v)
	}
	req.URL.RawQuery = query.Encode()

	correlationId := option.correlationId
	if correlationId == "" {
		if fromCtx, ctxErr := util.CorrelationIdFromCtx(ctx); ctxErr == nil {
			correlationId = fromCtx
		} else {
			correlationId = util.NewUUID()
		}
	}
	req.Header.Set(option.correlationIdKey, correlationId)

	for k, v := range option.requestHeaders {
		req.Header.Set(k, v)
	}

	if option.signer != nil {
		if err := option.signer(req, option.signerKeys); err != nil {
			option.lg.Error("[HTTP-REQUEST-ERROR: failed to sign request]",
				zap.Error(err),
				zap.String("method", method),
				zap.String("url", requestUrl),
			)
			return 0, nil, ErrFailedToSignRequest.WithCause(err)
		}
	}

	start := time.Now()
	resp, err := getHttpClient().Do(req)
	if err != nil {
		option.lg.Error("[HTTP-REQUEST-ERROR: failed to send request]",
			zap.Error(err),
			zap.String("method", method),
			zap.String("url", requestUrl),
			zap.ByteString("requestBody", option.requestBody),
		)
		return 0, nil, ErrFailedToSendRequest.WithCause(err)
	}
	defer resp.Body.Close()

	httpStatusCode = resp.StatusCode
	responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		option.lg.Error("[HTTP-REQUEST-ERROR: failed to read response body]",
			zap.Error(err),
			zap.String("method", method),
			zap.String("url", requestUrl),
		)
		return 0, nil, ErrFailedToReadResponseBody.WithCause(err)
	}
	duration := time.Since(start)

	if duration > option.slowRequestThreshold {
		option.lg.Warn("[HTTP-REQUEST-SLOW]",
			zap.String("method", method),
			zap.String("url", requestUrl),
			zap.Int("httpStatusCode", httpStatusCode),
			zap.Duration("duration", duration),
		)
	}
	if option.debugEnabled {
		option.lg.Debug("[HTTP-REQUEST-DEBUG]",
			zap.String("method", method),
			zap.String("url", requestUrl),
			zap.Any("queryParams", option.queryParams),
			zap.ByteString("requestBody", option.requestBody),
			zap.Int("httpStatusCode", httpStatusCode),
			zap.ByteString("responseBody", responseBody),
			zap.Duration("duration", duration),
		)
	}

	return httpStatusCode, responseBody, nil
}

func Get(ctx context.Context, requestUrl string, options ...Option) (httpStatusCode int, responseBody []byte, err error) {
	return Request(ctx, http.MethodGet, requestUrl, options...)
}

func PostJson(ctx context.Context, requestUrl string, v any, options ...Option) (httpStatusCode int, responseBody []byte, err error) {
	defaultHeader := map[string]string{"Content-Type": "application/json"}
	options = append(options, WithRequestHeaders(defaultHeader), WithRequestBodyFromJson(v))
	return Request(ctx, http.MethodPost, requestUrl, options...)
}
