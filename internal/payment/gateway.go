// Package payment confirms payment authorizations with the external
// gateway. Card data never passes through here: the shopper's browser
// turns it into an opaque payment-method token first.
package payment

import (
	"context"
	"errors"
	"fmt"
)

const StatusSucceeded = "succeeded"

type Method struct {
	// Token is the gateway payment-method id produced client side.
	Token string
}

type Billing struct {
	Name  string
	Email string
}

type ConfirmRequest struct {
	ClientSecret string
	Method       Method
	Billing      Billing
}

// Authorization is what the gateway reports after confirmation. Only
// Status == StatusSucceeded means funds were authorized.
type Authorization struct {
	ID     string
	Status string
}

func (a Authorization) Succeeded() bool { return a.Status == StatusSucceeded }

type Gateway interface {
	Confirm(ctx context.Context, req ConfirmRequest) (Authorization, error)
}

// GatewayError is a rejection by the gateway. Message is meant for the
// shopper as is.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

var ErrInvalidClientSecret = errors.New("invalid payment client secret")

// Unconfigured rejects every confirmation. It stands in when no gateway
// key is set so the rest of the storefront still runs.
type Unconfigured struct{}

func (Unconfigured) Confirm(ctx context.Context, req ConfirmRequest) (Authorization, error) {
	return Authorization{}, &GatewayError{Code: "not_configured", Message: "Payments are not available right now."}
}
