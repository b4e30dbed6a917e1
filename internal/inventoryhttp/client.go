// Package inventoryhttp implements the inventory client contract over the
// catalog service's REST API.
package inventoryhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustmart/order-service/internal/domain/inventory"
)

var _ inventory.Client = (*Client)(nil)

// Client talks to the inventory (product catalog) service. Every method maps
// to a single HTTP call; the service offers no cross-call transaction.
type Client struct {
	base string
	http *http.Client
}

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures optional Client behavior.
type Option func(*options)

// WithTracerProvider sets the tracer provider for outgoing request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for outgoing request metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a Client for the given base URL, e.g.
// "http://product-service:8081/api/products". Outgoing requests are traced
// via otelhttp.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(o.tracerProvider),
				otelhttp.WithMeterProvider(o.meterProvider),
			),
		},
	}
}

type productDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type stockUpdateDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// FetchProduct returns the catalog entry for the given product ID, or an error
// wrapping inventory.ErrProductNotFound on a 404.
func (c *Client) FetchProduct(ctx context.Context, productID string) (*inventory.Product, error) {
	u := c.base + "/" + url.PathEscape(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch product")
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(inventory.ErrProductNotFound, "product %q", productID)
	default:
		return nil, statusError("fetch product", resp)
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &inventory.Product{ID: dto.ID, Name: dto.Name, UnitPrice: dto.Price}, nil
}

// HasStock reports whether the catalog has at least quantity units available.
func (c *Client) HasStock(ctx context.Context, productID string, quantity int) (bool, error) {
	u := c.base + "/" + url.PathEscape(productID) + "/check-stock?quantity=" + strconv.Itoa(quantity)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "check stock")
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, statusError("check stock", resp)
	}

	var ok bool
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		return false, errors.Wrap(err, "decode stock check")
	}
	return ok, nil
}

// ReduceStock submits one batched stock decrement. The call is not idempotent;
// callers must surface failures instead of retrying.
func (c *Client) ReduceStock(ctx context.Context, updates []inventory.StockUpdate) error {
	return c.postBatch(ctx, "/reduce-stock", updates)
}

// RestoreStock submits one batched stock increment, the compensating inverse
// of ReduceStock.
func (c *Client) RestoreStock(ctx context.Context, updates []inventory.StockUpdate) error {
	return c.postBatch(ctx, "/restore-stock", updates)
}

func (c *Client) postBatch(ctx context.Context, path string, updates []inventory.StockUpdate) error {
	dtos := make([]stockUpdateDTO, len(updates))
	for i, u := range updates {
		dtos[i] = stockUpdateDTO{ProductID: u.ProductID, Quantity: u.Quantity}
	}
	body, err := json.Marshal(dtos)
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post %s", path)
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("post "+path, resp)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("%s: inventory responded %d: %s", op, resp.StatusCode, string(snippet))
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
