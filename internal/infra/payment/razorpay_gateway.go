package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements the payment port using direct HTTP calls to
// the Razorpay REST API (basic auth with key id / key secret).
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	log       *zerolog.Logger
}

// NewRazorpayGateway creates a gateway against the production API. baseURL
// is overridable for tests.
func NewRazorpayGateway(keyID, keySecret string, logger *zerolog.Logger, baseURL ...string) *RazorpayGateway {
	url := "https://api.razorpay.com/v1"
	if len(baseURL) > 0 && baseURL[0] != "" {
		url = baseURL[0]
	}
	l := logger.With().Str("component", "RazorpayGateway").Logger()
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   url,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       &l,
	}
}

func (g *RazorpayGateway) Name() string     { return "razorpay" }
func (g *RazorpayGateway) KeyID() string    { return g.keyID }
func (g *RazorpayGateway) Configured() bool { return g.keyID != "" && g.keySecret != "" }

// razorpayOrderResponse is the subset of the orders API response we use.
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// razorpayPaymentResponse is the subset of the payments API response we use.
type razorpayPaymentResponse struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements adapter.PaymentGateway.CreateOrder.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*model.Order, error) {
	requestData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if notes != nil {
		requestData["notes"] = notes
	}

	var resp razorpayOrderResponse
	if err := g.post(ctx, "/orders", requestData, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		g.log.Error().Msg("order response missing id")
		return nil, domain.ErrGatewayFailure
	}
	return &model.Order{
		ID:        resp.ID,
		Amount:    resp.Amount,
		Currency:  resp.Currency,
		Receipt:   resp.Receipt,
		CreatedAt: time.Now(),
	}, nil
}

// VerifySignature implements adapter.PaymentGateway.VerifySignature.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	return VerifySignature(g.keySecret, orderID, paymentID, signature)
}

// FetchPayment implements adapter.PaymentGateway.FetchPayment.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.VerifiedPayment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Accept", "application/json")

	var resp razorpayPaymentResponse
	if err := g.do(req, &resp); err != nil {
		return nil, err
	}
	return &model.VerifiedPayment{
		ID:       resp.ID,
		OrderID:  resp.OrderID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Status:   resp.Status,
		Method:   resp.Method,
		Email:    resp.Email,
		Contact:  resp.Contact,
	}, nil
}

func (g *RazorpayGateway) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return g.do(req, out)
}

// do executes the request and maps provider failures to ErrGatewayFailure.
// The provider's own diagnostics are logged, never surfaced to callers.
func (g *RazorpayGateway) do(req *http.Request, out interface{}) error {
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error().Err(err).Str("url", req.URL.Path).Msg("gateway request failed")
		return domain.ErrGatewayFailure
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		g.log.Error().Err(err).Msg("read gateway response")
		return domain.ErrGatewayFailure
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr razorpayError
		_ = json.Unmarshal(raw, &apiErr)
		g.log.Error().
			Int("status", resp.StatusCode).
			Str("code", apiErr.Error.Code).
			Str("description", apiErr.Error.Description).
			Str("url", req.URL.Path).
			Msg("gateway error response")
		return domain.ErrGatewayFailure
	}

	if err := json.Unmarshal(raw, out); err != nil {
		g.log.Error().Err(err).Msg("unmarshal gateway response")
		return domain.ErrGatewayFailure
	}
	return nil
}
