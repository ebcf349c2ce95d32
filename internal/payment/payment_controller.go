package payment

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/registration"
	"github.com/nexus-esports/nexushub/pkg/utils"
)

// PaymentController drives order creation and verification for paid events.
type PaymentController struct {
	gateway   Gateway
	keyID     string
	keySecret string
	regs      registration.RegistrationRepository
	events    event.EventRepository
	appConfig *config.Config
	now       func() time.Time
}

// NewPaymentController creates a new payment controller
func NewPaymentController(gateway Gateway, regs registration.RegistrationRepository, events event.EventRepository, appConfig *config.Config) *PaymentController {
	return &PaymentController{
		gateway:   gateway,
		keyID:     appConfig.Razorpay.KeyID,
		keySecret: appConfig.Razorpay.KeySecret,
		regs:      regs,
		events:    events,
		appConfig: appConfig,
		now:       time.Now,
	}
}

// OrderInput identifies the registration to collect payment for.
type OrderInput struct {
	EventID        uint   `json:"event_id" binding:"required"`
	RegistrationID string `json:"registration_id" binding:"required"`
}

// VerifyInput is the credential triple the checkout hands back on success.
type VerifyInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	RegistrationID    string `json:"registration_id" binding:"required"`
}

// CreateOrder godoc
// @Summary Create a payment order for a registration
// @Description The chargeable amount is derived from the event record server-side and returned in paise; clients must not convert it again
// @Tags payments
// @Accept json
// @Produce json
// @Param order body OrderInput true "Registration to pay for"
// @Success 200 {object} CheckoutRequest "Checkout parameters"
// @Failure 400 {object} utils.ErrorResponse "Free event or already paid"
// @Failure 404 {object} utils.ErrorResponse "Event or registration not found"
// @Failure 502 {object} utils.ErrorResponse "Gateway error"
// @Router /payments/order [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	var input OrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		utils.BadRequestJSON(ctx, "event_id and registration_id are required")
		return
	}

	ev, err := c.events.GetEventByID(input.EventID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}
	if ev.EntryAmount <= 0 {
		utils.BadRequestJSON(ctx, "this event has no entry fee")
		return
	}

	reg, err := c.regs.GetRegistrationByPublicID(input.RegistrationID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if reg == nil || reg.EventID != ev.ID {
		utils.NotFoundJSON(ctx, "registration")
		return
	}
	if reg.PaymentStatus == registration.PaymentStatusPaid {
		utils.BadRequestJSON(ctx, "this registration is already paid")
		return
	}

	// Entry fee is stored in rupees; the gateway wants paise. This is the
	// single place the conversion happens.
	amount := ev.EntryAmount * 100
	receipt := "reg_" + utils.GenerateRandomToken(16)
	notes := map[string]string{
		"registration_id": reg.PublicID,
		"event_slug":      ev.Slug,
	}

	order, err := c.gateway.CreateOrder(ctx.Request.Context(), amount, "INR", receipt, notes)
	if err != nil {
		log.Printf("create order for registration %s: %v", reg.PublicID, err)
		ctx.JSON(http.StatusBadGateway, utils.ErrorResponse{Error: "payment gateway is unavailable, please try again"})
		return
	}

	if err := c.regs.SetOrder(reg.ID, order.ID, order.Amount); err != nil {
		log.Printf("persist order %s: %v", order.ID, err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CheckoutRequest{
		KeyID:     c.keyID,
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		EventName: ev.Name,
		Prefill: map[string]string{
			"name":    reg.CaptainName,
			"email":   reg.CaptainEmail,
			"contact": reg.CaptainPhone,
		},
		Notes: notes,
	})
}

// VerifyPayment godoc
// @Summary Verify a completed checkout
// @Description Recomputes the gateway signature; only a valid signature for the registration's own order marks it paid
// @Tags payments
// @Accept json
// @Produce json
// @Param verification body VerifyInput true "Checkout credential triple"
// @Success 200 {object} map[string]interface{} "Payment verified"
// @Failure 400 {object} utils.ErrorResponse "Verification failed"
// @Failure 404 {object} utils.ErrorResponse "Registration not found"
// @Router /payments/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	var input VerifyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		utils.BadRequestJSON(ctx, "razorpay_order_id, razorpay_payment_id, razorpay_signature and registration_id are required")
		return
	}

	reg, err := c.regs.GetRegistrationByPublicID(input.RegistrationID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if reg == nil {
		utils.NotFoundJSON(ctx, "registration")
		return
	}

	// The triple must belong to the order created for this registration.
	if reg.OrderID == "" || reg.OrderID != input.RazorpayOrderID {
		utils.BadRequestJSON(ctx, "payment verification failed")
		return
	}

	if !VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature, c.keySecret) {
		log.Printf("signature mismatch for registration %s order %s", reg.PublicID, input.RazorpayOrderID)
		utils.BadRequestJSON(ctx, "payment verification failed")
		return
	}

	if err := c.regs.MarkPaid(reg.ID, input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature, c.now()); err != nil {
		log.Printf("mark paid %s: %v", reg.PublicID, err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
