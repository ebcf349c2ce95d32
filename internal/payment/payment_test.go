package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/registration"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test_key_secret"

func TestVerifySignature(t *testing.T) {
	sig := SignPayment("order_123", "pay_456", testSecret)
	if !VerifySignature("order_123", "pay_456", sig, testSecret) {
		t.Fatal("expected a freshly signed triple to verify")
	}
	if VerifySignature("order_123", "pay_456", sig+"00", testSecret) {
		t.Error("tampered signature must not verify")
	}
	if VerifySignature("order_999", "pay_456", sig, testSecret) {
		t.Error("signature for a different order must not verify")
	}
	if VerifySignature("order_123", "pay_456", sig, "other_secret") {
		t.Error("signature must not verify under a different secret")
	}
}

// fakeGateway records the last order request and returns a canned order.
type fakeGateway struct {
	lastAmount   int64
	lastCurrency string
	orderID      string
	fail         bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if g.fail {
		return nil, fmt.Errorf("gateway down")
	}
	g.lastAmount = amount
	g.lastCurrency = currency
	return &Order{ID: g.orderID, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

// fakeRegRepo implements registration.RegistrationRepository for one row.
type fakeRegRepo struct {
	reg       *registration.TeamRegistration
	orderSet  string
	paid      bool
	paidOrder string
	paidSig   string
}

func (f *fakeRegRepo) CreateRegistration(reg *registration.TeamRegistration) error { return nil }
func (f *fakeRegRepo) GetRegistrationByID(id uint) (*registration.TeamRegistration, error) {
	return f.reg, nil
}
func (f *fakeRegRepo) GetRegistrationByPublicID(publicID string) (*registration.TeamRegistration, error) {
	if f.reg != nil && f.reg.PublicID == publicID {
		return f.reg, nil
	}
	return nil, nil
}
func (f *fakeRegRepo) ExistsForEventEmail(eventID uint, email string) (bool, error) {
	return false, nil
}
func (f *fakeRegRepo) ListByEvent(eventID uint, status string, page, limit int) ([]registration.TeamRegistration, int64, error) {
	return nil, 0, nil
}
func (f *fakeRegRepo) UpdateRegistration(reg *registration.TeamRegistration) error { return nil }
func (f *fakeRegRepo) UpdateStatus(id uint, status registration.RegistrationStatus) error {
	return nil
}
func (f *fakeRegRepo) CountApprovedByEvent(eventID uint) (int64, error) { return 0, nil }
func (f *fakeRegRepo) SetOrder(id uint, orderID string, amount int64) error {
	f.orderSet = orderID
	f.reg.OrderID = orderID
	f.reg.AmountPaid = amount
	f.reg.PaymentStatus = registration.PaymentStatusCreated
	return nil
}
func (f *fakeRegRepo) MarkPaid(id uint, orderID, paymentID, signature string, paidAt time.Time) error {
	f.paid = true
	f.paidOrder = orderID
	f.paidSig = signature
	f.reg.PaymentStatus = registration.PaymentStatusPaid
	return nil
}
func (f *fakeRegRepo) SumAttempts(scope registration.RateScope, key string, since time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeRegRepo) RecordAttempt(scope registration.RateScope, key string, at time.Time) error {
	return nil
}
func (f *fakeRegRepo) PurgeAttemptsBefore(cutoff time.Time) (int64, error) { return 0, nil }

type fakeEventRepo struct {
	ev *event.Event
}

func (f *fakeEventRepo) CreateEvent(e *event.Event) error { return nil }
func (f *fakeEventRepo) GetEventByID(id uint) (*event.Event, error) {
	if f.ev != nil && f.ev.ID == id {
		return f.ev, nil
	}
	return nil, nil
}
func (f *fakeEventRepo) GetEventBySlug(slug string) (*event.Event, error) { return f.ev, nil }
func (f *fakeEventRepo) GetAllEvents(page, limit int, filters map[string]interface{}) ([]event.Event, int64, error) {
	return nil, 0, nil
}
func (f *fakeEventRepo) UpdateEvent(e *event.Event) error                     { return nil }
func (f *fakeEventRepo) DeleteEvent(id uint) error                            { return nil }
func (f *fakeEventRepo) UpdateStatus(id uint, status event.EventStatus) error { return nil }
func (f *fakeEventRepo) RollPastEvents() (int64, error)                       { return 0, nil }

func paidEvent() *event.Event {
	ev := &event.Event{Name: "Winter Clash", Slug: "winter-clash", TeamSlots: 16, EntryAmount: 500}
	ev.ID = 1
	return ev
}

func pendingRegistration() *registration.TeamRegistration {
	reg := &registration.TeamRegistration{
		PublicID:     "4fa1f0c2-0000-0000-0000-000000000001",
		EventID:      1,
		TeamName:     "Raging Pandas",
		CaptainName:  "Arjun Rao",
		CaptainEmail: "captain@example.com",
		Status:       registration.StatusPending,
	}
	reg.ID = 7
	return reg
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Razorpay.KeyID = "rzp_test_key"
	cfg.Razorpay.KeySecret = testSecret
	return cfg
}

func newPaymentServer(gateway Gateway, regs *fakeRegRepo, ev *event.Event) *gin.Engine {
	controller := NewPaymentController(gateway, regs, &fakeEventRepo{ev: ev}, testConfig())
	r := gin.New()
	r.POST("/api/payments/order", controller.CreateOrder)
	r.POST("/api/payments/verify", controller.VerifyPayment)
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// A ₹500 entry fee must become a 50000 paise order, converted exactly once
// on the server.
func TestCreateOrderDerivesAmountServerSide(t *testing.T) {
	gateway := &fakeGateway{orderID: "order_abc"}
	regs := &fakeRegRepo{reg: pendingRegistration()}
	r := newPaymentServer(gateway, regs, paidEvent())

	w := postJSON(r, "/api/payments/order", map[string]interface{}{
		"event_id":        1,
		"registration_id": regs.reg.PublicID,
		// A hostile client supplying its own amount must be ignored.
		"amount": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if gateway.lastAmount != 50000 {
		t.Errorf("gateway amount = %d paise, want 50000", gateway.lastAmount)
	}
	if gateway.lastCurrency != "INR" {
		t.Errorf("currency = %q, want INR", gateway.lastCurrency)
	}

	var resp CheckoutRequest
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Amount != 50000 {
		t.Errorf("response amount = %d, want 50000 (already minor units)", resp.Amount)
	}
	if resp.KeyID != "rzp_test_key" {
		t.Errorf("key_id = %q", resp.KeyID)
	}
	if resp.OrderID != "order_abc" {
		t.Errorf("order_id = %q", resp.OrderID)
	}
	if regs.orderSet != "order_abc" {
		t.Errorf("order id not persisted on registration: %q", regs.orderSet)
	}
	if resp.Prefill["email"] != "captain@example.com" {
		t.Errorf("prefill email = %q", resp.Prefill["email"])
	}
}

func TestCreateOrderFreeEvent(t *testing.T) {
	ev := paidEvent()
	ev.EntryAmount = 0
	regs := &fakeRegRepo{reg: pendingRegistration()}
	r := newPaymentServer(&fakeGateway{orderID: "order_abc"}, regs, ev)

	w := postJSON(r, "/api/payments/order", map[string]interface{}{
		"event_id":        1,
		"registration_id": regs.reg.PublicID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a free event", w.Code)
	}
}

func TestCreateOrderAlreadyPaid(t *testing.T) {
	regs := &fakeRegRepo{reg: pendingRegistration()}
	regs.reg.PaymentStatus = registration.PaymentStatusPaid
	r := newPaymentServer(&fakeGateway{orderID: "order_abc"}, regs, paidEvent())

	w := postJSON(r, "/api/payments/order", map[string]interface{}{
		"event_id":        1,
		"registration_id": regs.reg.PublicID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when already paid", w.Code)
	}
}

func TestCreateOrderGatewayDown(t *testing.T) {
	regs := &fakeRegRepo{reg: pendingRegistration()}
	r := newPaymentServer(&fakeGateway{fail: true}, regs, paidEvent())

	w := postJSON(r, "/api/payments/order", map[string]interface{}{
		"event_id":        1,
		"registration_id": regs.reg.PublicID,
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if regs.orderSet != "" {
		t.Error("no order must be persisted when the gateway fails")
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	regs := &fakeRegRepo{reg: pendingRegistration()}
	regs.reg.OrderID = "order_abc"
	r := newPaymentServer(&fakeGateway{}, regs, paidEvent())

	sig := SignPayment("order_abc", "pay_123", testSecret)
	w := postJSON(r, "/api/payments/verify", map[string]interface{}{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  sig,
		"registration_id":     regs.reg.PublicID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !regs.paid {
		t.Fatal("registration was not marked paid")
	}
	if regs.paidOrder != "order_abc" || regs.paidSig != sig {
		t.Errorf("persisted order/signature mismatch: %q %q", regs.paidOrder, regs.paidSig)
	}
}

func TestVerifyPaymentTamperedSignature(t *testing.T) {
	regs := &fakeRegRepo{reg: pendingRegistration()}
	regs.reg.OrderID = "order_abc"
	r := newPaymentServer(&fakeGateway{}, regs, paidEvent())

	w := postJSON(r, "/api/payments/verify", map[string]interface{}{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "deadbeef",
		"registration_id":     regs.reg.PublicID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a tampered signature", w.Code)
	}
	if regs.paid {
		t.Fatal("registration must stay unpaid after failed verification")
	}
}

// A valid signature for some other order must not mark this registration paid.
func TestVerifyPaymentWrongOrder(t *testing.T) {
	regs := &fakeRegRepo{reg: pendingRegistration()}
	regs.reg.OrderID = "order_abc"
	r := newPaymentServer(&fakeGateway{}, regs, paidEvent())

	sig := SignPayment("order_other", "pay_123", testSecret)
	w := postJSON(r, "/api/payments/verify", map[string]interface{}{
		"razorpay_order_id":   "order_other",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  sig,
		"registration_id":     regs.reg.PublicID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a foreign order id", w.Code)
	}
	if regs.paid {
		t.Fatal("registration must stay unpaid")
	}
}

func TestRazorpayClientCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("path = %q, want /orders", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Amount != 50000 {
			t.Errorf("amount = %d", req.Amount)
		}
		json.NewEncoder(w).Encode(Order{ID: "order_xyz", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer server.Close()

	client := NewRazorpayClient("key_id", "key_secret", server.URL)
	order, err := client.CreateOrder(context.Background(), 50000, "INR", "reg_abc", nil)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_xyz" || order.Amount != 50000 {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestCheckoutOutcomeString(t *testing.T) {
	cases := map[CheckoutOutcome]string{
		OutcomeSuccess:   "success",
		OutcomeCancelled: "cancelled",
		OutcomeFailed:    "failed",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", outcome, got, want)
		}
	}
}
