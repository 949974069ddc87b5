package storefront

import "errors"

var (
	ErrAuthRequired = errors.New("please login to continue")
	ErrUnknownView  = errors.New("unknown view")
)
