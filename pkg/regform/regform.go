// Package regform drives the three-step team registration wizard: identity,
// squad, review. Forward progress is gated by per-step validation, backward
// navigation is free, and submission is blocked while any visited step still
// has errors or a request is in flight.
package regform

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexus-esports/nexushub/internal/models"
	"github.com/nexus-esports/nexushub/internal/payment"
	"github.com/nexus-esports/nexushub/internal/registration"
	"github.com/nexus-esports/nexushub/pkg/validator"
)

// Step identifies a wizard page.
type Step int

const (
	StepIdentity Step = 1
	StepSquad    Step = 2
	StepReview   Step = 3

	// A squad is the captain plus exactly four teammates.
	TeammateCount = 4
)

// Identity is the captain's step-1 form data.
type Identity struct {
	TeamName   string
	FullName   string
	IngameName string
	Mobile     string
	Email      string
	Education  models.EducationRecord
}

// Teammate is one step-2 squad member.
type Teammate struct {
	FullName   string
	IngameName string
	Education  models.EducationRecord
}

// FieldErrors maps form field keys to user-visible messages.
type FieldErrors map[string]string

// Wizard is the registration form state machine. It is not safe for
// concurrent use; the embedding UI drives it from a single goroutine.
type Wizard struct {
	EventID uint
	// EntryAmount is the event's fee in rupees, from the event page data.
	// Zero means a free event and no checkout runs. The server re-derives
	// the chargeable amount; this only routes the flow.
	EntryAmount int64

	Identity  Identity
	Teammates [TeammateCount]Teammate
	Terms     bool

	step     Step
	visited  map[Step]bool
	errors   map[Step]FieldErrors
	inFlight bool

	// Set after a successful submit; retained so a paid checkout can be
	// retried without resubmitting the form.
	RegistrationID string
}

// NewWizard creates a wizard for one event, positioned on step 1.
func NewWizard(eventID uint) *Wizard {
	return &Wizard{
		EventID: eventID,
		step:    StepIdentity,
		visited: map[Step]bool{StepIdentity: true},
		errors:  make(map[Step]FieldErrors),
	}
}

// CurrentStep returns the step the wizard is on.
func (w *Wizard) CurrentStep() Step { return w.step }

// Errors returns the field errors recorded for a step, if any.
func (w *Wizard) Errors(step Step) FieldErrors { return w.errors[step] }

// InFlight reports whether a submit or payment request is outstanding.
func (w *Wizard) InFlight() bool { return w.inFlight }

func validateEducation(errs FieldErrors, prefix string, rec models.EducationRecord) {
	switch rec.Type {
	case models.EducationSchool:
		if strings.TrimSpace(rec.SchoolName) == "" {
			errs[prefix+"school_name"] = "school name is required"
		}
		if strings.TrimSpace(rec.SchoolClass) == "" {
			errs[prefix+"school_class"] = "class is required"
		}
	case models.EducationCollege:
		if strings.TrimSpace(rec.CollegeName) == "" {
			errs[prefix+"college_name"] = "college name is required"
		}
		if strings.TrimSpace(rec.CollegeYear) == "" {
			errs[prefix+"college_year"] = "year is required"
		}
		if strings.TrimSpace(rec.CollegeBranch) == "" {
			errs[prefix+"college_branch"] = "branch is required"
		}
	default:
		errs[prefix+"education_type"] = "education type is required"
	}
}

// ValidateStep runs the rules for one step and records the result.
func (w *Wizard) ValidateStep(step Step) FieldErrors {
	errs := make(FieldErrors)
	switch step {
	case StepIdentity:
		if len(strings.TrimSpace(w.Identity.TeamName)) < 2 {
			errs["team_name"] = "team name must be at least 2 characters"
		}
		if strings.TrimSpace(w.Identity.FullName) == "" {
			errs["captain_name"] = "full name is required"
		}
		if strings.TrimSpace(w.Identity.IngameName) == "" {
			errs["captain_ingame_name"] = "in-game name is required"
		}
		if !validator.IsMobile(w.Identity.Mobile) {
			errs["captain_phone"] = "enter a valid 10-digit mobile number"
		}
		if !validator.IsEmail(w.Identity.Email) {
			errs["captain_email"] = "enter a valid email address"
		}
		validateEducation(errs, "captain_", w.Identity.Education)
	case StepSquad:
		for i, mate := range w.Teammates {
			prefix := fmt.Sprintf("teammate_%d_", i+1)
			if strings.TrimSpace(mate.FullName) == "" {
				errs[prefix+"name"] = "full name is required"
			}
			if strings.TrimSpace(mate.IngameName) == "" {
				errs[prefix+"ingame_name"] = "in-game name is required"
			}
			validateEducation(errs, prefix, mate.Education)
		}
	case StepReview:
		if !w.Terms {
			errs["terms"] = "you must accept the terms to register"
		}
	}

	if len(errs) == 0 {
		delete(w.errors, step)
		return nil
	}
	w.errors[step] = errs
	return errs
}

// Next validates the current step and advances on success. It returns the
// field errors that blocked the move, or nil if the wizard advanced.
func (w *Wizard) Next() FieldErrors {
	if errs := w.ValidateStep(w.step); errs != nil {
		return errs
	}
	if w.step < StepReview {
		w.step++
		w.visited[w.step] = true
	}
	return nil
}

// Back moves one step backward. Never blocked.
func (w *Wizard) Back() {
	if w.step > StepIdentity {
		w.step--
	}
}

// canSubmit revalidates every visited step; submission is blocked while
// any of them has unresolved errors.
func (w *Wizard) canSubmit() bool {
	ok := true
	for step := StepIdentity; step <= StepReview; step++ {
		if !w.visited[step] {
			ok = false
			continue
		}
		if w.ValidateStep(step) != nil {
			ok = false
		}
	}
	return ok
}

// buildRequest assembles the intake payload. Array order is significant:
// index 0 is always the captain.
func (w *Wizard) buildRequest() registration.IntakeRequest {
	names := make([]string, 0, 1+TeammateCount)
	ingame := make([]string, 0, 1+TeammateCount)
	education := make([]models.EducationRecord, 0, 1+TeammateCount)

	names = append(names, strings.TrimSpace(w.Identity.FullName))
	ingame = append(ingame, strings.TrimSpace(w.Identity.IngameName))
	education = append(education, w.Identity.Education)
	for _, mate := range w.Teammates {
		names = append(names, strings.TrimSpace(mate.FullName))
		ingame = append(ingame, strings.TrimSpace(mate.IngameName))
		education = append(education, mate.Education)
	}

	captainEdu := w.Identity.Education
	return registration.IntakeRequest{
		EventID:           w.EventID,
		TeamName:          strings.TrimSpace(w.Identity.TeamName),
		CaptainName:       strings.TrimSpace(w.Identity.FullName),
		CaptainEmail:      strings.ToLower(strings.TrimSpace(w.Identity.Email)),
		CaptainPhone:      strings.ReplaceAll(strings.TrimSpace(w.Identity.Mobile), " ", ""),
		CaptainIngameName: strings.TrimSpace(w.Identity.IngameName),
		CaptainEducation:  &captainEdu,
		PlayerNames:       names,
		PlayerIngameNames: ingame,
		PlayerEducation:   education,
	}
}

// SubmitResult reports how a completed submission ended.
type SubmitResult struct {
	RegistrationID string
	// Paid is true when the event carries an entry fee and checkout ran.
	Paid bool
	// CheckoutOutcome is meaningful only when Paid is true.
	CheckoutOutcome payment.CheckoutOutcome
}

// Submit validates, sends the registration, and for paid events runs the
// checkout flow. A failed or cancelled checkout still returns the
// registration id: the record is pending on the server and payment can be
// retried via RetryPayment without filling the form again.
func (w *Wizard) Submit(ctx context.Context, client Client, checkout payment.CheckoutDriver) (*SubmitResult, error) {
	if w.inFlight {
		return nil, fmt.Errorf("a submission is already in progress")
	}
	if !w.canSubmit() {
		return nil, fmt.Errorf("the form has unresolved errors")
	}

	w.inFlight = true
	defer func() { w.inFlight = false }()

	regID, err := client.Submit(ctx, w.buildRequest())
	if err != nil {
		return nil, err
	}
	w.RegistrationID = regID

	return w.runPayment(ctx, client, checkout, regID)
}

// RetryPayment reruns checkout for an already-submitted registration.
// Used after a cancelled or failed checkout, from the event page.
func (w *Wizard) RetryPayment(ctx context.Context, client Client, checkout payment.CheckoutDriver) (*SubmitResult, error) {
	if w.RegistrationID == "" {
		return nil, fmt.Errorf("no registration to pay for")
	}
	if w.inFlight {
		return nil, fmt.Errorf("a submission is already in progress")
	}
	w.inFlight = true
	defer func() { w.inFlight = false }()

	return w.runPayment(ctx, client, checkout, w.RegistrationID)
}

func (w *Wizard) runPayment(ctx context.Context, client Client, checkout payment.CheckoutDriver, regID string) (*SubmitResult, error) {
	result := &SubmitResult{RegistrationID: regID}
	if w.EntryAmount <= 0 {
		return result, nil
	}

	order, err := client.CreateOrder(ctx, w.EventID, regID)
	if err != nil {
		return nil, err
	}

	result.Paid = true
	outcome := checkout.Checkout(*order)
	result.CheckoutOutcome = outcome.Outcome
	switch outcome.Outcome {
	case payment.OutcomeCancelled:
		// Informational, not an error. Registration stays pending.
		return result, nil
	case payment.OutcomeFailed:
		return result, outcome.Err
	}

	if err := client.VerifyPayment(ctx, regID, outcome.OrderID, outcome.PaymentID, outcome.Signature); err != nil {
		result.CheckoutOutcome = payment.OutcomeFailed
		return result, err
	}
	return result, nil
}
