package event

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/pkg/utils"
	"github.com/nexus-esports/nexushub/pkg/validator"
)

// EventController handles event-related HTTP requests
type EventController struct {
	repo      EventRepository
	appConfig *config.Config
	now       func() time.Time
}

// NewEventController creates a new event controller
func NewEventController(repo EventRepository, appConfig *config.Config) *EventController {
	return &EventController{
		repo:      repo,
		appConfig: appConfig,
		now:       time.Now,
	}
}

// GetAllEvents godoc
// @Summary List events
// @Description Get a paginated list of events with their evaluated registration state
// @Tags events
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Number of items per page (default: 10, max: 100)"
// @Param game query string false "Filter by game"
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.PaginatedResponse "Events"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) GetAllEvents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filters := map[string]interface{}{}
	if game := ctx.Query("game"); game != "" {
		filters["game"] = game
	}
	if status := ctx.Query("status"); status != "" {
		filters["status"] = status
	}
	if name := ctx.Query("name"); name != "" {
		filters["name"] = name
	}

	events, total, err := c.repo.GetAllEvents(page, limit, filters)
	if err != nil {
		log.Printf("list events: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	now := c.now()
	views := make([]EventView, 0, len(events))
	for i := range events {
		views = append(views, EventView{Event: events[i], Evaluation: Evaluate(&events[i], now)})
	}

	utils.PaginatedJSON(ctx, views, page, limit, total)
}

// GetEventBySlug godoc
// @Summary Get event by slug
// @Description Get an event with its evaluated registration state
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} EventView "Event details"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(ctx *gin.Context) {
	ev, err := c.repo.GetEventBySlug(ctx.Param("slug"))
	if err != nil {
		log.Printf("get event: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}

	ctx.JSON(http.StatusOK, EventView{Event: *ev, Evaluation: Evaluate(ev, c.now())})
}

// CreateEvent godoc
// @Summary Create event
// @Description Create a new tournament event (admin only)
// @Tags events
// @Accept json
// @Produce json
// @Param event body EventInput true "Event information"
// @Success 201 {object} Event "Event created"
// @Failure 400 {object} utils.ValidationErrorResponse "Invalid input"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /admin/events [post]
// @Security Bearer
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var input EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		fields := map[string]interface{}{}
		for k, v := range validator.ParseError(err) {
			fields[k] = v
		}
		utils.ValidationErrorJSON(ctx, "invalid event payload", fields)
		return
	}

	if err := input.ValidateWindow(); err != nil {
		utils.BadRequestJSON(ctx, err.Error())
		return
	}

	status := StatusUpcoming
	if input.Status != "" {
		status = EventStatus(input.Status)
	}

	ev := &Event{
		Name:                 input.Name,
		Game:                 input.Game,
		Description:          input.Description,
		TeamSlots:            input.TeamSlots,
		EntryAmount:          input.EntryAmount,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		RegistrationStart:    input.RegistrationStart,
		RegistrationEnd:      input.RegistrationEnd,
		Status:               status,
		RegistrationOverride: OverrideState(input.RegistrationOverride),
		BannerURL:            input.BannerURL,
		RulesMarkdown:        input.RulesMarkdown,
	}

	if err := c.repo.CreateEvent(ev); err != nil {
		log.Printf("create event: %v", err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ev)
}

// UpdateEvent godoc
// @Summary Update event
// @Description Update an existing event (admin only)
// @Tags events
// @Accept json
// @Produce json
// @Param event_id path int true "Event ID"
// @Param event body EventInput true "Event information"
// @Success 200 {object} Event "Event updated"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /admin/events/{event_id} [put]
// @Security Bearer
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("event_id"), 10, 32)
	if err != nil {
		utils.BadRequestJSON(ctx, "invalid event ID")
		return
	}

	ev, err := c.repo.GetEventByID(uint(eventID))
	if err != nil {
		log.Printf("load event %d: %v", eventID, err)
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}

	var input EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		fields := map[string]interface{}{}
		for k, v := range validator.ParseError(err) {
			fields[k] = v
		}
		utils.ValidationErrorJSON(ctx, "invalid event payload", fields)
		return
	}

	if err := input.ValidateWindow(); err != nil {
		utils.BadRequestJSON(ctx, err.Error())
		return
	}

	ev.Name = input.Name
	ev.Game = input.Game
	ev.Description = input.Description
	ev.TeamSlots = input.TeamSlots
	ev.EntryAmount = input.EntryAmount
	ev.StartDate = input.StartDate
	ev.EndDate = input.EndDate
	ev.RegistrationStart = input.RegistrationStart
	ev.RegistrationEnd = input.RegistrationEnd
	if input.Status != "" {
		ev.Status = EventStatus(input.Status)
	}
	ev.RegistrationOverride = OverrideState(input.RegistrationOverride)
	ev.BannerURL = input.BannerURL
	ev.RulesMarkdown = input.RulesMarkdown

	if err := c.repo.UpdateEvent(ev); err != nil {
		log.Printf("update event %d: %v", eventID, err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ev)
}

// DeleteEvent godoc
// @Summary Delete event
// @Description Delete an event and everything registered under it (admin only)
// @Tags events
// @Produce json
// @Param event_id path int true "Event ID"
// @Success 200 {object} utils.SuccessResponse "Event deleted"
// @Failure 400 {object} utils.ErrorResponse "Invalid event ID"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /admin/events/{event_id} [delete]
// @Security Bearer
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("event_id"), 10, 32)
	if err != nil {
		utils.BadRequestJSON(ctx, "invalid event ID")
		return
	}

	ev, err := c.repo.GetEventByID(uint(eventID))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if ev == nil {
		utils.NotFoundJSON(ctx, "event")
		return
	}

	if err := c.repo.DeleteEvent(uint(eventID)); err != nil {
		log.Printf("delete event %d: %v", eventID, err)
		utils.InternalErrorJSON(ctx, err)
		return
	}

	utils.SuccessJSON(ctx, http.StatusOK, "event deleted", nil)
}
