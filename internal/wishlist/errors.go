package wishlist

import "errors"

var ErrAuthRequired = errors.New("sign in to manage your wishlist")
