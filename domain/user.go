package domain

type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Session pairs the backend-issued token with the profile it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
