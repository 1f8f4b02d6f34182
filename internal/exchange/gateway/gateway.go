// Package gateway is the HTTP client for the WATA payment gateway.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ton-exchange/internal/common/gatewayprotocol"
	"ton-exchange/pkg/logging"
)

var (
	ErrRateLimited = errors.New("gateway rate limited the request")
	ErrUnavailable = errors.New("gateway unavailable")
)

type Config struct {
	BaseURL        string
	Token          string
	Description    string
	RequestTimeout time.Duration
}

type Client struct {
	http   *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func NewClient(cfg Config, logger *logging.ZapLogger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.RequestTimeout)
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePaymentLink registers a payment of amount RUB with the gateway and
// returns the link the customer pays through.
func (c *Client) CreatePaymentLink(ctx context.Context, amount decimal.Decimal, orderID string) (gatewayprotocol.PaymentLink, error) {
	body := gatewayprotocol.CreateLinkRequest{
		Amount:      amount.InexactFloat64(),
		Currency:    "RUB",
		Description: c.cfg.Description,
		OrderID:     orderID,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/h2h/links")
	if err != nil {
		return gatewayprotocol.PaymentLink{}, fmt.Errorf("create link request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return gatewayprotocol.PaymentLink{}, fmt.Errorf("create link: unexpected status code %v: %s", resp.StatusCode(), resp.Body())
	}
	link := gatewayprotocol.PaymentLink{}
	if err := json.Unmarshal(resp.Body(), &link); err != nil {
		c.logger.ErrorCtx(ctx, "Error unmarshalling payment link response", zap.Error(err))
		return gatewayprotocol.PaymentLink{}, fmt.Errorf("error unmarshalling payment link response: %w", err)
	}
	c.logger.DebugCtx(ctx, "Payment link created", zap.String("paymentID", link.ID))
	return link, nil
}

// FetchStatus asks the gateway for the current status of one payment link.
// A 429 maps to ErrRateLimited, transport failures and 5xx map to
// ErrUnavailable, so the oracle can fall back to its cache on either.
func (c *Client) FetchStatus(ctx context.Context, paymentID string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", paymentID).
		Get("/api/h2h/links/{id}")
	if err != nil {
		return "", fmt.Errorf("status request failed: %w", ErrUnavailable)
	}
	statusCode := resp.StatusCode()
	switch {
	case statusCode == http.StatusOK:
		link := gatewayprotocol.PaymentLink{}
		if err := json.Unmarshal(resp.Body(), &link); err != nil {
			c.logger.ErrorCtx(ctx, "Error unmarshalling payment status response", zap.Error(err))
			return "", fmt.Errorf("error unmarshalling payment status response: %w", err)
		}
		return link.Status, nil
	case statusCode == http.StatusTooManyRequests:
		c.logger.DebugCtx(ctx, "Gateway rate limit hit", zap.String("paymentID", paymentID))
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("unexpected status code %v: %w", statusCode, ErrUnavailable)
	}
}
