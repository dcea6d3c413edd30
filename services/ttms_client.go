package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ttms-analytics/config"
	"ttms-analytics/logging"
	"ttms-analytics/metrics"
	"ttms-analytics/models"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// maxErrorBodySize ограничивает чтение тела ответа для сообщения об ошибке
const maxErrorBodySize = 4 * 1024

// UpstreamClient - HTTP-клиент веб-сервиса TTMS.
// Все запросы идут через rate limiter и circuit breaker, HTTP 429 повторяется с экспоненциальной задержкой.
type UpstreamClient struct {
	baseURL        string
	adminAuthURL   string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

func NewUpstreamClient(cfg config.UpstreamConfig) *UpstreamClient {
	name := "ttms-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 20 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &UpstreamClient{
		baseURL:        cfg.BaseURL,
		adminAuthURL:   cfg.AdminAuthURL,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker:        breaker,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryDelay,
	}
}

// Get вызывает entity-эндпоинт и декодирует JSON-массив в out
func (c *UpstreamClient) Get(ctx context.Context, entity string, params url.Values, out interface{}) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("entity", entity)
	return c.getJSON(ctx, entity, c.baseURL+"?"+q.Encode(), out)
}

// GetAdminSession обращается к auth-admin за админ-сессией
func (c *UpstreamClient) GetAdminSession(ctx context.Context, loginSessionID string, out interface{}) error {
	q := url.Values{}
	q.Set("session_id", loginSessionID)
	return c.getJSON(ctx, "auth-admin", c.adminAuthURL+"?"+q.Encode(), out)
}

func (c *UpstreamClient) getJSON(ctx context.Context, entity, reqURL string, out interface{}) error {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, entity, reqURL)
	})
	metrics.UpstreamDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(entity, "error").Inc()
		if errors.Is(err, models.ErrUpstreamFetch) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", models.ErrUpstreamFetch, entity, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.UpstreamRequests.WithLabelValues(entity, "malformed").Inc()
		return fmt.Errorf("%w: %s: malformed payload: %v", models.ErrUpstreamFetch, entity, err)
	}
	metrics.UpstreamRequests.WithLabelValues(entity, "ok").Inc()
	return nil
}

// doRequest выполняет GET с повтором на HTTP 429 (задержка удваивается, Retry-After имеет приоритет)
func (c *UpstreamClient) doRequest(ctx context.Context, entity, reqURL string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request failed: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		logging.Ctx(ctx).Debug().Str("entity", entity).Int("attempt", attempt).Msg("upstream request")
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
			_ = resp.Body.Close()

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := readResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamFetch, entity, err)
		}
		return body, nil
	}
}

func readResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(excerpt))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
