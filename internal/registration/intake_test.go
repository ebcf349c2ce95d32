package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRegistrationRepo implements RegistrationRepository in memory.
type fakeRegistrationRepo struct {
	regs       []*TeamRegistration
	attempts   []RateLimitRecord
	approved   int64
	purgeCalls int
	failPurge  bool
}

func (f *fakeRegistrationRepo) CreateRegistration(reg *TeamRegistration) error {
	for _, existing := range f.regs {
		if existing.EventID == reg.EventID && existing.CaptainEmail == reg.CaptainEmail {
			return ErrDuplicateRegistration
		}
	}
	reg.ID = uint(len(f.regs) + 1)
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationRepo) GetRegistrationByID(id uint) (*TeamRegistration, error) {
	for _, r := range f.regs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) GetRegistrationByPublicID(publicID string) (*TeamRegistration, error) {
	for _, r := range f.regs {
		if r.PublicID == publicID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) ExistsForEventEmail(eventID uint, email string) (bool, error) {
	for _, r := range f.regs {
		if r.EventID == eventID && r.CaptainEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) ListByEvent(eventID uint, status string, page, limit int) ([]TeamRegistration, int64, error) {
	var out []TeamRegistration
	for _, r := range f.regs {
		if r.EventID == eventID && (status == "" || string(r.Status) == status) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRegistrationRepo) UpdateRegistration(reg *TeamRegistration) error { return nil }

func (f *fakeRegistrationRepo) UpdateStatus(id uint, status RegistrationStatus) error {
	for _, r := range f.regs {
		if r.ID == id {
			r.Status = status
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) CountApprovedByEvent(eventID uint) (int64, error) {
	return f.approved, nil
}

func (f *fakeRegistrationRepo) SetOrder(id uint, orderID string, amount int64) error { return nil }

func (f *fakeRegistrationRepo) MarkPaid(id uint, orderID, paymentID, signature string, paidAt time.Time) error {
	return nil
}

func (f *fakeRegistrationRepo) SumAttempts(scope RateScope, key string, since time.Time) (int64, error) {
	var total int64
	for _, a := range f.attempts {
		if a.Scope == scope && a.Key == key && !a.LastAttempt.Before(since) {
			total += int64(a.AttemptCount)
		}
	}
	return total, nil
}

func (f *fakeRegistrationRepo) RecordAttempt(scope RateScope, key string, at time.Time) error {
	f.attempts = append(f.attempts, RateLimitRecord{Scope: scope, Key: key, AttemptCount: 1, LastAttempt: at})
	return nil
}

func (f *fakeRegistrationRepo) PurgeAttemptsBefore(cutoff time.Time) (int64, error) {
	f.purgeCalls++
	if f.failPurge {
		return 0, fmt.Errorf("purge unavailable")
	}
	return 0, nil
}

// fakeEventRepo implements event.EventRepository with a single event.
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
func (f *fakeEventRepo) UpdateEvent(e *event.Event) error                      { return nil }
func (f *fakeEventRepo) DeleteEvent(id uint) error                             { return nil }
func (f *fakeEventRepo) UpdateStatus(id uint, status event.EventStatus) error  { return nil }
func (f *fakeEventRepo) RollPastEvents() (int64, error)                        { return 0, nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RateLimit.IPWindowSeconds = 60
	cfg.RateLimit.IPMaxAttempts = 5
	cfg.RateLimit.EmailWindowMinutes = 60
	cfg.RateLimit.EmailMaxAttempts = 10
	cfg.RateLimit.RecordTTLHours = 24
	return cfg
}

func openEvent() *event.Event {
	ev := &event.Event{
		Name:              "Winter Clash",
		TeamSlots:         16,
		RegistrationStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RegistrationEnd:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		StartDate:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Status:            event.StatusUpcoming,
	}
	ev.ID = 1
	return ev
}

func intakeBody(email string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"event_id":      1,
		"team_name":     "Raging Pandas",
		"captain_name":  "Arjun Rao",
		"captain_email": email,
		"player_names":  []string{"Arjun Rao", "P2", "P3", "P4", "P5"},
	})
	return body
}

func newIntakeServer(repo *fakeRegistrationRepo, ev *event.Event, now time.Time) *gin.Engine {
	controller := NewRegistrationController(repo, &fakeEventRepo{ev: ev}, nil, testConfig())
	controller.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/api/events/register", controller.Submit)
	return r
}

func doSubmit(r *gin.Engine, body []byte, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/events/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, w.Body.String())
	}
	return resp.Error, resp.Code
}

func TestSubmitSuccessFreeEvent(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success        bool   `json:"success"`
		RegistrationID string `json:"registration_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.RegistrationID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if len(repo.regs) != 1 {
		t.Fatalf("registrations persisted = %d, want 1", len(repo.regs))
	}
	reg := repo.regs[0]
	if reg.Status != StatusPending {
		t.Errorf("status = %q, want pending", reg.Status)
	}
	if reg.PaymentStatus != PaymentStatusNone || reg.PaidAt != nil {
		t.Errorf("free event must not carry payment fields: %+v", reg)
	}
	if reg.CaptainEmail != "captain@example.com" {
		t.Errorf("captain email = %q", reg.CaptainEmail)
	}
}

func TestSubmitMissingFields(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	body, _ := json.Marshal(map[string]interface{}{"event_id": 1})
	w := doSubmit(r, body, "1.2.3.4")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(repo.regs) != 0 {
		t.Error("invalid payload must not persist a registration")
	}
}

func TestSubmitInvalidEmail(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	w := doSubmit(r, intakeBody("not-an-email"), "1.2.3.4")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSubmitDuplicate(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	if w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4"); w.Code != http.StatusCreated {
		t.Fatalf("first submit: status = %d", w.Code)
	}

	w := doSubmit(r, intakeBody("captain@example.com"), "5.6.7.8")
	if w.Code != http.StatusConflict {
		t.Fatalf("second submit: status = %d, want 409", w.Code)
	}
	if _, code := decodeError(t, w); code != CodeDuplicateRegistration {
		t.Errorf("code = %q, want %q", code, CodeDuplicateRegistration)
	}
}

func TestSubmitDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	w := doSubmit(r, intakeBody("CAPTAIN@Example.COM"), "5.6.7.8")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

// The unique constraint is the authoritative guard: even when the advisory
// pre-check misses (e.g. two requests race past it), the insert must map the
// conflict to the same code.
func TestSubmitDuplicateViaConstraint(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	controller := NewRegistrationController(repo, &fakeEventRepo{ev: openEvent()}, nil, testConfig())
	controller.now = func() time.Time { return now }

	// Seed a conflicting row without letting the pre-check see a stable view:
	// simulate the race by inserting between check and insert.
	raceRepo := &racingRepo{fakeRegistrationRepo: repo}
	controller.repo = raceRepo

	r := gin.New()
	r.POST("/api/events/register", controller.Submit)
	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	if _, code := decodeError(t, w); code != CodeDuplicateRegistration {
		t.Errorf("code = %q, want %q", code, CodeDuplicateRegistration)
	}
}

// racingRepo reports no duplicate at pre-check time but fails the insert with
// the constraint error, mimicking a lost duplicate race.
type racingRepo struct {
	*fakeRegistrationRepo
}

func (r *racingRepo) ExistsForEventEmail(eventID uint, email string) (bool, error) {
	return false, nil
}

func (r *racingRepo) CreateRegistration(reg *TeamRegistration) error {
	return ErrDuplicateRegistration
}

func TestSubmitIPRateLimit(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	// 5 attempts from the same IP pass the rate gate (they fail later as
	// duplicates, which still counts).
	for i := 0; i < 5; i++ {
		w := doSubmit(r, intakeBody(fmt.Sprintf("captain%d@example.com", i)), "9.9.9.9")
		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("attempt %d unexpectedly rate limited", i+1)
		}
	}

	w := doSubmit(r, intakeBody("captain6@example.com"), "9.9.9.9")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th attempt: status = %d, want 429", w.Code)
	}
	if _, code := decodeError(t, w); code != CodeRateLimited {
		t.Errorf("code = %q, want %q", code, CodeRateLimited)
	}
}

func TestSubmitIPRateLimitWindowExpires(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	base := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	// Pre-load 5 attempts that are older than the 60s window.
	for i := 0; i < 5; i++ {
		repo.attempts = append(repo.attempts, RateLimitRecord{
			Scope: ScopeIP, Key: "9.9.9.9", AttemptCount: 1,
			LastAttempt: base.Add(-2 * time.Minute),
		})
	}

	r := newIntakeServer(repo, openEvent(), base)
	w := doSubmit(r, intakeBody("captain@example.com"), "9.9.9.9")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 after window elapsed: %s", w.Code, w.Body.String())
	}
}

func TestSubmitEmailRateLimit(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		repo.attempts = append(repo.attempts, RateLimitRecord{
			Scope: ScopeEmail, Key: "captain@example.com", AttemptCount: 1,
			LastAttempt: now.Add(-10 * time.Minute),
		})
	}

	r := newIntakeServer(repo, openEvent(), now)
	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if _, code := decodeError(t, w); code != CodeEmailRateLimited {
		t.Errorf("code = %q, want %q", code, CodeEmailRateLimited)
	}
}

// Rejected attempts must still count toward the rate limits, so the attempt
// is recorded before the duplicate check runs.
func TestSubmitRecordsAttemptBeforeDuplicateCheck(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	attemptsAfterFirst := len(repo.attempts)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if len(repo.attempts) <= attemptsAfterFirst {
		t.Error("rejected duplicate attempt was not recorded for rate limiting")
	}
}

func TestSubmitRegistrationClosed(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	afterWindow := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), afterWindow)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if _, code := decodeError(t, w); code != CodeRegistrationClosed {
		t.Errorf("code = %q, want %q", code, CodeRegistrationClosed)
	}
}

func TestSubmitOverrideOpenBypassesWindow(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	ev := openEvent()
	ev.RegistrationOverride = event.OverrideOpen
	afterWindow := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, ev, afterWindow)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 with manual override open: %s", w.Code, w.Body.String())
	}
}

func TestSubmitFullyBooked(t *testing.T) {
	repo := &fakeRegistrationRepo{approved: 16}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if _, code := decodeError(t, w); code != CodeFullyBooked {
		t.Errorf("code = %q, want %q", code, CodeFullyBooked)
	}
}

func TestSubmitEventNotFound(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, nil, now)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// A failed housekeeping purge must not block intake.
func TestSubmitPurgeFailureIsNonFatal(t *testing.T) {
	repo := &fakeRegistrationRepo{failPurge: true}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	w := doSubmit(r, intakeBody("captain@example.com"), "1.2.3.4")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if repo.purgeCalls == 0 {
		t.Error("expected the purge to have been attempted")
	}
}

func TestSubmitUnknownIPFallback(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := newIntakeServer(repo, openEvent(), now)

	w := doSubmit(r, intakeBody("captain@example.com"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	found := false
	for _, a := range repo.attempts {
		if a.Scope == ScopeIP && a.Key == "unknown" {
			found = true
		}
	}
	if !found {
		t.Error("expected the attempt to be recorded under the 'unknown' IP key")
	}
}
