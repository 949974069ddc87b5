package cart

import "errors"

var ErrAuthRequired = errors.New("sign in to manage your cart")
