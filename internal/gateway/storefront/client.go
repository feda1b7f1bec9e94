package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var _ ports.StorefrontAPI = (*Client)(nil)

// ErrTransport - запрос не дошёл, ответ не 2xx или тело не разобралось.
var ErrTransport = errors.New("storefront transport error")

const (
	pathSetRedirect = "/api/set_redirect.php"
	pathUsers       = "/api/users.php"
	pathAddOrder    = "/api/add-order.php"

	maxErrorBody = 1 << 16
)

// Client - HTTP-клиент серверных эндпоинтов магазина.
type Client struct {
	baseURL string
	http    *http.Client
}

// New - клиент с трассировкой исходящих запросов.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetRedirect - POST /api/set_redirect.php {redirectUrl}.
func (c *Client) SetRedirect(ctx context.Context, redirectURL string) error {
	body := struct {
		RedirectURL string `json:"redirectUrl"`
	}{RedirectURL: redirectURL}
	return c.do(ctx, http.MethodPost, pathSetRedirect, body, nil)
}

// FetchUserAddress - GET /api/users.php?id=<id>. Ответ {error} возвращается без ошибки.
func (c *Client) FetchUserAddress(ctx context.Context, userID string) (*domain.UserProfileAddress, error) {
	var profile domain.UserProfileAddress
	path := pathUsers + "?id=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddOrder - POST /api/add-order.php. {success:false} не считается ошибкой транспорта.
func (c *Client) AddOrder(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderResult, error) {
	var res domain.OrderResult
	if err := c.do(ctx, http.MethodPost, pathAddOrder, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do - один JSON-запрос. out == nil означает, что тело ответа не нужно.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build request %s: %v", ErrTransport, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s status=%d body=%s", ErrTransport, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrTransport, path, err)
	}
	return nil
}
