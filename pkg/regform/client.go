package regform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexus-esports/nexushub/internal/payment"
	"github.com/nexus-esports/nexushub/internal/registration"
)

// Client is the wizard's view of the backend: one intake call and the two
// payment calls. Tests substitute fakes.
type Client interface {
	Submit(ctx context.Context, req registration.IntakeRequest) (registrationID string, err error)
	CreateOrder(ctx context.Context, eventID uint, registrationID string) (*payment.CheckoutRequest, error)
	VerifyPayment(ctx context.Context, registrationID, orderID, paymentID, signature string) error
}

// HTTPClient talks to the nexushub API over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the API at baseURL, for example
// "https://nexushub.gg/api".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// mapError turns a stable rejection code into the matching sentinel so
// callers can branch with errors.Is.
func mapError(status int, body []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch apiErr.Code {
	case registration.CodeRateLimited:
		return ErrRateLimited
	case registration.CodeEmailRateLimited:
		return ErrEmailRateLimited
	case registration.CodeDuplicateRegistration:
		return ErrDuplicateRegistration
	case registration.CodeRegistrationClosed:
		return ErrRegistrationClosed
	case registration.CodeFullyBooked:
		return ErrFullyBooked
	}
	if status == http.StatusNotFound {
		return ErrEventNotFound
	}
	if apiErr.Error != "" {
		return fmt.Errorf("%s", apiErr.Error)
	}
	return fmt.Errorf("request failed with status %d", status)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp.StatusCode, respBody)
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

// Submit sends the intake payload and returns the new registration id.
func (c *HTTPClient) Submit(ctx context.Context, req registration.IntakeRequest) (string, error) {
	var resp struct {
		Success        bool   `json:"success"`
		RegistrationID string `json:"registration_id"`
	}
	if err := c.post(ctx, "/events/register", req, &resp); err != nil {
		return "", err
	}
	return resp.RegistrationID, nil
}

// CreateOrder asks the server for checkout parameters. The amount in the
// response is already in minor units; it must be displayed as-is.
func (c *HTTPClient) CreateOrder(ctx context.Context, eventID uint, registrationID string) (*payment.CheckoutRequest, error) {
	var resp payment.CheckoutRequest
	err := c.post(ctx, "/payments/order", map[string]interface{}{
		"event_id":        eventID,
		"registration_id": registrationID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPayment forwards the checkout credential triple for server-side
// signature verification.
func (c *HTTPClient) VerifyPayment(ctx context.Context, registrationID, orderID, paymentID, signature string) error {
	err := c.post(ctx, "/payments/verify", map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"registration_id":     registrationID,
	}, nil)
	if err != nil {
		return ErrPaymentVerification
	}
	return nil
}
