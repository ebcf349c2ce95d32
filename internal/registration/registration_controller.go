package registration

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/models"
	"github.com/nexus-esports/nexushub/pkg/utils"
	"github.com/nexus-esports/nexushub/pkg/validator"
)

// Notifier sends the registration-approved email. Failures are logged and
// never block the approval itself.
type Notifier interface {
	SendApprovalEmail(to, teamName, eventName string) error
}

// RegistrationController handles public intake and admin review of
// registrations.
type RegistrationController struct {
	repo      RegistrationRepository
	events    event.EventRepository
	notifier  Notifier
	appConfig *config.Config
	now       func() time.Time
}

// NewRegistrationController creates a new registration controller.
// notifier may be nil when no SMTP host is configured.
func NewRegistrationController(repo RegistrationRepository, events event.EventRepository, notifier Notifier, appConfig *config.Config) *RegistrationController {
	return &RegistrationController{
		repo:      repo,
		events:    events,
		notifier:  notifier,
		appConfig: appConfig,
		now:       time.Now,
	}
}

// Submit godoc
// @Summary Submit a team registration
// @Description Authoritative registration intake: validates, rate-limits, checks duplicates, capacity and the registration window, then persists a pending registration
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body IntakeRequest true "Registration payload"
// @Success 201 {object} map[string]interface{} "registration accepted"
// @Failure 400 {object} utils.ErrorResponse "Validation failed or registration closed"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Failure 409 {object} utils.ErrorResponse "Duplicate registration"
// @Failure 429 {object} utils.ErrorResponse "Rate limited"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /events/register [post]
func (c *RegistrationController) Submit(ctx *gin.Context) {
	// 1. Shape and required fields.
	var req IntakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fields := map[string]interface{}{}
		for k, v := range validator.ParseError(err) {
			fields[k] = v
		}
		utils.ValidationErrorJSON(ctx, "invalid registration payload", fields)
		return
	}

	// 2. Email format.
	email := strings.ToLower(strings.TrimSpace(req.CaptainEmail))
	if !validator.IsEmail(email) {
		utils.BadRequestJSON(ctx, "captain_email is not a valid email address")
		return
	}

	now := c.now()
	rl := c.appConfig.RateLimit

	// 3. Best-effort housekeeping; a failed purge must not block intake.
	cutoff := now.Add(-time.Duration(rl.RecordTTLHours) * time.Hour)
	if _, err := c.repo.PurgeAttemptsBefore(cutoff); err != nil {
		log.Printf("rate-limit purge failed: %v", err)
	}

	// 4. Per-IP sliding window.
	clientIP := utils.ClientIP(ctx)
	ipSince := now.Add(-time.Duration(rl.IPWindowSeconds) * time.Second)
	ipAttempts, err := c.repo.SumAttempts(ScopeIP, clientIP, ipSince)
	if err != nil {
		log.Printf("ip rate-limit lookup failed: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ipAttempts >= int64(rl.IPMaxAttempts) {
		utils.CodedErrorJSON(ctx, http.StatusTooManyRequests,
			"too many registration attempts, please wait a minute and try again", CodeRateLimited)
		return
	}

	// 5. Per-email sliding window.
	emailSince := now.Add(-time.Duration(rl.EmailWindowMinutes) * time.Minute)
	emailAttempts, err := c.repo.SumAttempts(ScopeEmail, email, emailSince)
	if err != nil {
		log.Printf("email rate-limit lookup failed: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if emailAttempts >= int64(rl.EmailMaxAttempts) {
		utils.CodedErrorJSON(ctx, http.StatusTooManyRequests,
			"too many registration attempts for this email, please try again later", CodeEmailRateLimited)
		return
	}

	// 6. Record the attempt before the duplicate/open checks so rejected
	// attempts still count toward the limits.
	if err := c.repo.RecordAttempt(ScopeIP, clientIP, now); err != nil {
		log.Printf("record ip attempt failed: %v", err)
	}
	if err := c.repo.RecordAttempt(ScopeEmail, email, now); err != nil {
		log.Printf("record email attempt failed: %v", err)
	}

	// 7. Duplicate pre-check. Advisory only; the unique index on insert is
	// the authoritative guard.
	exists, err := c.repo.ExistsForEventEmail(req.EventID, email)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if exists {
		utils.CodedErrorJSON(ctx, http.StatusConflict,
			"this email has already registered a team for this event", CodeDuplicateRegistration)
		return
	}

	// 8. Load the event.
	ev, err := c.events.GetEventByID(req.EventID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}

	// 9. Authoritative open check with server time.
	if !event.Evaluate(ev, now).IsRegistrationOpen {
		utils.CodedErrorJSON(ctx, http.StatusBadRequest,
			"registration is not open for this event", CodeRegistrationClosed)
		return
	}

	// 10. Capacity.
	approved, err := c.repo.CountApprovedByEvent(ev.ID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if approved >= int64(ev.TeamSlots) {
		utils.CodedErrorJSON(ctx, http.StatusBadRequest,
			"this event is fully booked", CodeFullyBooked)
		return
	}

	// 11. Insert; a racing duplicate surfaces here as the same 409.
	reg := &TeamRegistration{
		PublicID:          uuid.NewString(),
		EventID:           ev.ID,
		TeamName:          strings.TrimSpace(req.TeamName),
		CaptainName:       strings.TrimSpace(req.CaptainName),
		CaptainEmail:      email,
		CaptainPhone:      strings.TrimSpace(req.CaptainPhone),
		CaptainIngameName: strings.TrimSpace(req.CaptainIngameName),
		PlayerNames:       models.StringSlice(req.PlayerNames),
		PlayerIngameNames: models.StringSlice(req.PlayerIngameNames),
		PlayerEducation:   models.EducationList(req.PlayerEducation),
		Status:            StatusPending,
	}
	if req.CaptainEducation != nil {
		reg.CaptainEducation = *req.CaptainEducation
	}

	if err := c.repo.CreateRegistration(reg); err != nil {
		if err == ErrDuplicateRegistration {
			utils.CodedErrorJSON(ctx, http.StatusConflict,
				"this email has already registered a team for this event", CodeDuplicateRegistration)
			return
		}
		log.Printf("create registration: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	// 12. Done.
	ctx.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"registration_id": reg.PublicID,
	})
}

// ListByEvent godoc
// @Summary List registrations for an event
// @Tags registrations
// @Produce json
// @Param event_id path int true "Event ID"
// @Param status query string false "Filter by status (pending/approved/rejected)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} utils.PaginatedResponse "Registrations"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /admin/events/{event_id}/registrations [get]
// @Security Bearer
func (c *RegistrationController) ListByEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("event_id"), 10, 32)
	if err != nil {
		utils.BadRequestJSON(ctx, "invalid event ID")
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	regs, total, err := c.repo.ListByEvent(uint(eventID), ctx.Query("status"), page, limit)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	utils.PaginatedJSON(ctx, regs, page, limit, total)
}

// GetRegistration godoc
// @Summary Get a registration
// @Tags registrations
// @Produce json
// @Param registration_id path string true "Registration public ID"
// @Success 200 {object} TeamRegistration "Registration"
// @Failure 404 {object} utils.ErrorResponse "Registration not found"
// @Router /admin/registrations/{registration_id} [get]
// @Security Bearer
func (c *RegistrationController) GetRegistration(ctx *gin.Context) {
	reg, err := c.repo.GetRegistrationByPublicID(ctx.Param("registration_id"))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if reg == nil {
		utils.NotFoundJSON(ctx, "registration")
		return
	}
	ctx.JSON(http.StatusOK, reg)
}

// UpdateRegistration godoc
// @Summary Edit registration contact fields
// @Description Content fields are editable at any time; status moves only through approve/reject
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration_id path string true "Registration public ID"
// @Param registration body RegistrationUpdateInput true "Fields to update"
// @Success 200 {object} TeamRegistration "Updated registration"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 404 {object} utils.ErrorResponse "Registration not found"
// @Router /admin/registrations/{registration_id} [put]
// @Security Bearer
func (c *RegistrationController) UpdateRegistration(ctx *gin.Context) {
	reg, err := c.repo.GetRegistrationByPublicID(ctx.Param("registration_id"))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if reg == nil {
		utils.NotFoundJSON(ctx, "registration")
		return
	}

	var input RegistrationUpdateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		fields := map[string]interface{}{}
		for k, v := range validator.ParseError(err) {
			fields[k] = v
		}
		utils.ValidationErrorJSON(ctx, "invalid registration payload", fields)
		return
	}

	if input.TeamName != "" {
		reg.TeamName = input.TeamName
	}
	if input.CaptainName != "" {
		reg.CaptainName = input.CaptainName
	}
	if input.CaptainPhone != "" {
		reg.CaptainPhone = input.CaptainPhone
	}
	if input.CaptainIngameName != "" {
		reg.CaptainIngameName = input.CaptainIngameName
	}
	if len(input.PlayerNames) > 0 {
		reg.PlayerNames = models.StringSlice(input.PlayerNames)
	}
	if len(input.PlayerIngameNames) > 0 {
		reg.PlayerIngameNames = models.StringSlice(input.PlayerIngameNames)
	}

	if err := c.repo.UpdateRegistration(reg); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reg)
}

// Approve godoc
// @Summary Approve a registration
// @Description Blocked while the owning event is past or closed; sends a best-effort notification email
// @Tags registrations
// @Produce json
// @Param registration_id path string true "Registration public ID"
// @Success 200 {object} utils.SuccessResponse "Registration approved"
// @Failure 400 {object} utils.ErrorResponse "Event is past or closed"
// @Failure 404 {object} utils.ErrorResponse "Registration not found"
// @Router /admin/registrations/{registration_id}/approve [post]
// @Security Bearer
func (c *RegistrationController) Approve(ctx *gin.Context) {
	c.review(ctx, StatusApproved)
}

// Reject godoc
// @Summary Reject a registration
// @Tags registrations
// @Produce json
// @Param registration_id path string true "Registration public ID"
// @Success 200 {object} utils.SuccessResponse "Registration rejected"
// @Failure 400 {object} utils.ErrorResponse "Event is past or closed"
// @Failure 404 {object} utils.ErrorResponse "Registration not found"
// @Router /admin/registrations/{registration_id}/reject [post]
// @Security Bearer
func (c *RegistrationController) Reject(ctx *gin.Context) {
	c.review(ctx, StatusRejected)
}

func (c *RegistrationController) review(ctx *gin.Context, status RegistrationStatus) {
	reg, err := c.repo.GetRegistrationByPublicID(ctx.Param("registration_id"))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if reg == nil {
		utils.NotFoundJSON(ctx, "registration")
		return
	}

	ev, err := c.events.GetEventByID(reg.EventID)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}

	display := event.DisplayStatus(ev, c.now())
	if display == event.StatusPast || display == event.StatusClosed {
		utils.BadRequestJSON(ctx, "registrations of a past or closed event cannot be modified")
		return
	}

	if err := c.repo.UpdateStatus(reg.ID, status); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}

	if status == StatusApproved && c.notifier != nil {
		go func(to, team, eventName string) {
			if err := c.notifier.SendApprovalEmail(to, team, eventName); err != nil {
				log.Printf("approval email to %s failed: %v", to, err)
			}
		}(reg.CaptainEmail, reg.TeamName, ev.Name)
	}

	utils.SuccessJSON(ctx, http.StatusOK, "registration "+string(status), nil)
}
