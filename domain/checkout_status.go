package domain

type CheckoutStatus string

const (
	CheckoutStatusAmountConfirmation CheckoutStatus = "AMOUNT_CONFIRMATION"
	CheckoutStatusPaymentCapture     CheckoutStatus = "PAYMENT_CAPTURE"
	CheckoutStatusOrderRecording     CheckoutStatus = "ORDER_RECORDING"
	CheckoutStatusCartClearing       CheckoutStatus = "CART_CLEARING"
	CheckoutStatusComplete           CheckoutStatus = "COMPLETE"
	CheckoutStatusFailed             CheckoutStatus = "FAILED"
	CheckoutStatusFailedPostPayment  CheckoutStatus = "FAILED_POST_PAYMENT"
	CheckoutStatusAbandoned          CheckoutStatus = "ABANDONED"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusAmountConfirmation: {CheckoutStatusPaymentCapture, CheckoutStatusAbandoned},
	CheckoutStatusPaymentCapture:     {CheckoutStatusOrderRecording, CheckoutStatusFailed, CheckoutStatusAbandoned},
	CheckoutStatusOrderRecording:     {CheckoutStatusCartClearing, CheckoutStatusFailedPostPayment},
	CheckoutStatusCartClearing:       {CheckoutStatusComplete},
}

// CanTransitionTo reports whether the checkout state machine allows from -> to.
func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	switch s {
	case CheckoutStatusComplete, CheckoutStatusFailed, CheckoutStatusFailedPostPayment, CheckoutStatusAbandoned:
		return true
	}
	return false
}

func (s CheckoutStatus) IsFailed() bool {
	return s == CheckoutStatusFailed || s == CheckoutStatusFailedPostPayment
}

// Cancellable is true only while no remote side effect has been recorded.
func (s CheckoutStatus) Cancellable() bool {
	return s == CheckoutStatusAmountConfirmation || s == CheckoutStatusPaymentCapture
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
