package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 金流gateway對本系統是opaque service，只暴露建立payment intent與webhook事件
// 內部一律以最小貨幣單位(cents)溝通

const (
	IntentStatusSucceeded      = "succeeded"
	IntentStatusRequiresAction = "requires_payment_method"

	EventPaymentSucceeded = "payment_intent.succeeded"
)

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// Event gateway webhook事件，metadata帶correlation用的order_id
type Event struct {
	ID       string
	Type     string
	Metadata map[string]string
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error)
}

type HTTPGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewHTTPGateway(baseURL, secretKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *HTTPGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	// 轉成cents
	form.Set("amount", amount.Shift(2).Round(0).String())
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")
	form.Set("capture_method", "automatic")
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payment intent response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent response: %w", err)
	}
	return &intent, nil
}

var _ PaymentGateway = (*HTTPGateway)(nil)
