package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Sandbox and live REST endpoints.
const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

// PayPalConfig configures the REST verifier.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
}

// PayPal looks orders up through the PayPal Orders v2 API.
type PayPal struct {
	client *resty.Client
	log    *zap.Logger
}

// NewPayPal builds a verifier whose HTTP client fetches and refreshes its
// bearer token with the client-credentials grant.
func NewPayPal(cfg PayPalConfig, logger *zap.Logger) (*PayPal, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("paypal: client id and secret are required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = SandboxBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("paypal: invalid base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	// The token source outlives any single request.
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = timeout

	client := resty.NewWithClient(httpClient).
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r != nil && r.StatusCode() >= http.StatusInternalServerError
	})

	return &PayPal{client: client, log: logger}, nil
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		Email string `json:"email_address"`
		Name  struct {
			Given   string `json:"given_name"`
			Surname string `json:"surname"`
		} `json:"name"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount struct {
					Currency string `json:"currency_code"`
					Value    string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Capture fetches the order and checks it is completed. Amount and payer
// come from PayPal, never from the claim.
func (p *PayPal) Capture(ctx context.Context, c Claim) (*Capture, error) {
	if strings.TrimSpace(c.OrderID) == "" {
		return nil, ErrInvalidClaim
	}

	var order orderResponse
	var apiErr errorResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("id", c.OrderID).
		SetResult(&order).
		SetError(&apiErr).
		Get("/v2/checkout/orders/{id}")
	if err != nil {
		return nil, fmt.Errorf("paypal: get order %s: %w", c.OrderID, err)
	}
	if resp.IsError() {
		p.log.Warn("paypal order lookup failed",
			zap.String("order_id", c.OrderID),
			zap.Int("status", resp.StatusCode()),
			zap.String("name", apiErr.Name))
		return nil, fmt.Errorf("paypal: get order %s: %s %s", c.OrderID, resp.Status(), apiErr.Message)
	}
	if order.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: status %s", ErrNotCompleted, order.Status)
	}

	out := &Capture{
		OrderID:    order.ID,
		PayerEmail: order.Payer.Email,
		PayerName:  strings.TrimSpace(order.Payer.Name.Given + " " + order.Payer.Name.Surname),
		Status:     order.Status,
	}
	for _, pu := range order.PurchaseUnits {
		for _, pc := range pu.Payments.Captures {
			if pc.Status != StatusCompleted {
				continue
			}
			amt, err := strconv.ParseFloat(pc.Amount.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("paypal: capture %s amount %q: %w", pc.ID, pc.Amount.Value, err)
			}
			out.TransactionID = pc.ID
			out.Amount = amt
			out.Currency = pc.Amount.Currency
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no completed capture on order %s", ErrNotCompleted, c.OrderID)
}
