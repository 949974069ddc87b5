package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
	ErrNotCancellable     = errors.New("checkout can no longer be cancelled")
	ErrCheckoutInProgress = errors.New("checkout step already in progress")
	ErrAuthRequired       = errors.New("please login to continue")
)

type FailureKind string

const (
	// Step blocked, state unchanged, the shopper can correct and retry.
	FailureValidation FailureKind = "validation"
	// Gateway refused or did not authorize. Nothing was charged or recorded.
	FailurePayment FailureKind = "payment"
	// Payment went through but the order was not recorded.
	FailurePostPayment FailureKind = "post_payment"
)

// Failure is what a checkout step surfaces to the shopper.
type Failure struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	PaymentRef string      `json:"payment_ref,omitempty"`
	Err        error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

func unrecordedMessage(ref string) string {
	return fmt.Sprintf("Payment %s succeeded but your order could not be recorded. Please contact support with payment reference %s.", ref, ref)
}
