package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payload"
)

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

var errNoToken = errors.New("login response without token")

func (ac *AuthClient) Login(ctx context.Context, email, password string) (domain.Session, error) {
	data, err := ac.c.Do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password})
	if err != nil {
		return domain.Session{}, err
	}
	m, err := payload.DecodeObject(data)
	if err != nil {
		return domain.Session{}, err
	}
	token := payload.StringField(m, "token", "accessToken")
	if token == "" {
		return domain.Session{}, errNoToken
	}
	u := payload.Nested(m, "user")
	if u == nil {
		u = m
	}
	return domain.Session{Token: token, User: userFromFields(u)}, nil
}

// Signup creates the account. The backend does not sign the user in.
func (ac *AuthClient) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	data, err := ac.c.Do(ctx, http.MethodPost, "/auth/signup", nil, req)
	if err != nil {
		return domain.User{}, err
	}
	m, err := payload.DecodeObject(data)
	if err != nil {
		return domain.User{}, err
	}
	return userFromFields(m), nil
}

func userFromFields(m payload.Fields) domain.User {
	u := domain.User{
		Name:    payload.StringField(m, "name"),
		Email:   payload.StringField(m, "email"),
		Address: payload.StringField(m, "address"),
		Phone:   payload.StringField(m, "phone"),
	}
	u.ID, _ = payload.Int64Field(m, "id", "userId")
	return u
}
