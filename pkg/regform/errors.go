package regform

import "errors"

// Sentinel errors mirroring the intake service's stable rejection codes.
// The wizard surfaces each one differently: duplicates are terminal for
// that email, rate limits mean wait, everything else is retryable.
var (
	ErrDuplicateRegistration = errors.New("this email has already registered a team for this event")
	ErrRateLimited           = errors.New("too many attempts, please wait a minute and try again")
	ErrEmailRateLimited      = errors.New("too many attempts for this email, please try again later")
	ErrRegistrationClosed    = errors.New("registration is not open for this event")
	ErrFullyBooked           = errors.New("this event is fully booked")
	ErrEventNotFound         = errors.New("event not found")
	ErrPaymentVerification   = errors.New("payment verification failed, please contact support")
)

// Retryable reports whether resubmitting the same form could succeed.
// Duplicate registrations never are; rate limits are after waiting.
func Retryable(err error) bool {
	return !errors.Is(err, ErrDuplicateRegistration)
}
