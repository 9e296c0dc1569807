package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "https://api.tosspayments.com/v1"

// Confirmer finalizes a previously-initiated charge.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*Payment, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	breaker    *gobreaker.CircuitBreaker[*Payment]
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[*Payment](gobreaker.Settings{
		Name:    "payment-confirm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Business rejections reached the gateway fine; only transport
			// and gateway-side failures should open the breaker.
			var gwErr *GatewayError
			return errors.As(err, &gwErr) && !gwErr.Temporary()
		},
	})
	return c
}

// Confirm calls the gateway confirmation endpoint. A non-2xx response comes
// back as *GatewayError carrying the gateway's code and message.
func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*Payment, error) {
	return c.breaker.Execute(func() (*Payment, error) {
		return c.confirm(ctx, req)
	})
}

func (c *Client) confirm(ctx context.Context, req ConfirmRequest) (*Payment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal confirm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build confirm request: %w", err)
	}
	httpReq.Header.Set("Authorization", authHeader(c.secretKey))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var gwErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err != nil {
			return nil, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
		}
		return nil, &GatewayError{
			Code:       gwErr.Code,
			Message:    gwErr.Message,
			HTTPStatus: resp.StatusCode,
		}
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	return &payment, nil
}

// authHeader builds the Basic credential the gateway expects: the secret key
// with a trailing colon, base64 encoded.
func authHeader(secretKey string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
	return "Basic " + encoded
}
