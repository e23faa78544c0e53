// Package googlebooks Google Books v1 目录客户端
//
// 实现catalog.Gateway：
//
//	GET {base}/volumes?q={query}  搜索
//	GET {base}/volumes/{id}       详情
//
// 调用链：限流（x/time/rate）→ 熔断（pkg/circuitbreaker）→ HTTP请求（带追踪span）。
// 任何失败都返回UpstreamFailure，不重试。
package googlebooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/booknerds/pkg/errors"
	"github.com/xiebiao/booknerds/pkg/metrics"
	"github.com/xiebiao/booknerds/pkg/tracing"
)

const (
	tracerName  = "booknerds/catalog"
	breakerName = "google-books"

	opSearch = "search"
	opGet    = "get"

	// maxBodySize 响应体上限
	maxBodySize = 4 << 20
)

// statusError 上游返回非2xx
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog responded %d", e.status)
}

// Client Google Books客户端（并发安全）
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int

	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient 创建目录客户端
// httpClient为nil时按catalog.timeout创建
func NewClient(cfg config.CatalogConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// rate_limit<=0 不限流
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	failures := cfg.Breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	breaker := circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			zap.L().Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		http:       httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    breaker,
	}
}

// upstreamHealthy 4xx说明上游在正常应答，不计入熔断
func upstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *statusError
	return errors.As(err, &se) && se.status < http.StatusInternalServerError
}

// Search 搜索图书，没有items时返回空切片
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Book, error) {
	params := url.Values{}
	params.Set("q", query)
	if c.maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(c.maxResults))
	}

	body, err := c.fetch(ctx, opSearch, "/volumes", params)
	if err != nil {
		return nil, apperrors.Upstream(err, catalog.ErrSearchFailed.Message)
	}

	books, err := parseSearch(body)
	if err != nil {
		return nil, apperrors.Upstream(err, catalog.ErrSearchFailed.Message)
	}
	return books, nil
}

// Get 查询图书详情
func (c *Client) Get(ctx context.Context, id string) (*catalog.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalog.ErrMissingBookID
	}

	body, err := c.fetch(ctx, opGet, "/volumes/"+url.PathEscape(id), url.Values{})
	if err != nil {
		return nil, apperrors.Upstream(err, catalog.ErrLookupFailed.Message)
	}

	book, err := parseVolume(body)
	if err != nil {
		return nil, apperrors.Upstream(err, catalog.ErrLookupFailed.Message)
	}
	return book, nil
}

// fetch 限流 + 熔断 + 追踪 + 指标
func (c *Client) fetch(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "catalog."+op)
	defer span.End()

	start := time.Now()
	result := "success"
	defer func() {
		metrics.IncCounterVec(metrics.CatalogRequestsTotal, map[string]string{"op": op, "result": result})
		if result != "rejected" {
			metrics.ObserveHistogramVec(metrics.CatalogRequestDuration, map[string]string{"op": op}, time.Since(start).Seconds())
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		result = "rejected"
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("限流等待失败: %w", err)
	}

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	target := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var body []byte
	err := c.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.do(ctx, target)
		return err
	})
	if err != nil {
		result = "failure"
		if errors.Is(err, circuitbreaker.ErrOpenState) {
			result = "rejected"
		}
		tracing.RecordError(span, err)
		zap.L().Warn("图书目录调用失败",
			zap.String("op", op),
			zap.String("path", path),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.response_bytes", len(body)))
	return body, nil
}

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &statusError{status: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
