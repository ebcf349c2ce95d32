package event

import "time"

// RegistrationMode reports which rule produced the registration state.
type RegistrationMode string

const (
	ModeManual    RegistrationMode = "manual"
	ModeAutomatic RegistrationMode = "automatic"
)

// RegistrationState is the open/closed outcome of an evaluation.
type RegistrationState string

const (
	RegistrationOpen   RegistrationState = "open"
	RegistrationClosed RegistrationState = "closed"
)

// EvalResult is the full outcome of evaluating an event at an instant.
type EvalResult struct {
	EventStatus        EventStatus       `json:"event_status"`
	RegistrationState  RegistrationState `json:"registration_state"`
	IsRegistrationOpen bool              `json:"is_registration_open"`
	RegistrationMode   RegistrationMode  `json:"registration_mode"`
}

// Evaluate computes whether registration is open for e at instant now.
// It is a pure function: the public endpoints use it for display and the
// intake service re-runs it with server time as the authoritative check,
// so the two can only disagree by clock skew.
//
// An admin override always wins. In automatic mode registration is open
// when registration_start <= now <= registration_end (both bounds
// inclusive; an event whose window ends exactly at start_date still
// accepts a registration at that instant) and the event is upcoming or
// live.
func Evaluate(e *Event, now time.Time) EvalResult {
	res := EvalResult{EventStatus: DisplayStatus(e, now)}

	switch e.RegistrationOverride {
	case OverrideOpen:
		res.RegistrationMode = ModeManual
		res.RegistrationState = RegistrationOpen
		res.IsRegistrationOpen = true
		return res
	case OverrideClosed:
		res.RegistrationMode = ModeManual
		res.RegistrationState = RegistrationClosed
		res.IsRegistrationOpen = false
		return res
	}

	res.RegistrationMode = ModeAutomatic
	inWindow := !now.Before(e.RegistrationStart) && !now.After(e.RegistrationEnd)
	statusOpen := e.Status == StatusUpcoming || e.Status == StatusLive
	res.IsRegistrationOpen = inWindow && statusOpen
	if res.IsRegistrationOpen {
		res.RegistrationState = RegistrationOpen
	} else {
		res.RegistrationState = RegistrationClosed
	}
	return res
}

// DisplayStatus derives the status shown on event pages. Stored past/closed
// are terminal; otherwise an event whose end date has elapsed reads as past,
// and the stored upcoming/live value is shown as-is. Every call site shares
// this one derivation.
func DisplayStatus(e *Event, now time.Time) EventStatus {
	switch e.Status {
	case StatusPast:
		return StatusPast
	case StatusClosed:
		return StatusClosed
	}
	if !e.EndDate.IsZero() && now.After(e.EndDate) {
		return StatusPast
	}
	return e.Status
}
