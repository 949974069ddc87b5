package storefront

type View string

const (
	ViewHome     View = "home"
	ViewProducts View = "products"
	ViewCart     View = "cart"
	ViewWishlist View = "wishlist"
	ViewOrders   View = "orders"
	ViewProfile  View = "profile"
	ViewLogin    View = "login"
	ViewCheckout View = "checkout"
)

func (v View) valid() bool {
	switch v {
	case ViewHome, ViewProducts, ViewCart, ViewWishlist, ViewOrders, ViewProfile, ViewLogin, ViewCheckout:
		return true
	}
	return false
}

// signedInOnly views redirect to login without a session.
func (v View) signedInOnly() bool {
	switch v {
	case ViewCart, ViewWishlist, ViewOrders, ViewProfile, ViewCheckout:
		return true
	}
	return false
}
