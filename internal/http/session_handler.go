package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

type SessionHandler struct {
	sessions *Sessions
	timeout  time.Duration
}

func NewSessionHandler(sessions *Sessions, timeout time.Duration) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type NavigateRequestDTO struct {
	View string `json:"view"`
}

type SessionResponseDTO struct {
	SessionID     string          `json:"session_id,omitempty"`
	User          domain.User     `json:"user"`
	View          string          `json:"view"`
	CartCount     int             `json:"cart_count"`
	WishlistCount int             `json:"wishlist_count"`
	Notices       []domain.Notice `json:"notices,omitempty"`
}

// POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return
	}

	app := h.sessions.NewApp()
	sess, err := app.Login(ctx, req.Email, req.Password)
	if err != nil {
		if api.IsStatus(err, http.StatusUnauthorized) || api.IsStatus(err, http.StatusForbidden) || api.IsStatus(err, http.StatusBadRequest) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
			return
		}
		handleError(w, r, err)
		return
	}

	id, err := h.sessions.Register(ctx, app, sess)
	if err != nil {
		if errors.Is(err, session.ErrTokenExpired) {
			respondError(w, http.StatusUnauthorized, "session_expired", "Please login to continue.")
			return
		}
		handleError(w, r, err)
		return
	}

	resp := sessionResponse(app)
	resp.SessionID = id
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/session/signup
func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
		return
	}

	user, err := h.sessions.NewApp().Signup(ctx, api.SignupRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionResponse(appFrom(r.Context())))
}

// PUT /api/v1/session/view
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	app := appFrom(r.Context())
	if _, err := app.Navigate(storefront.View(req.View)); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse(app))
}

// DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Drop(r.Context(), sessionIDFrom(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sessionResponse(app *storefront.App) SessionResponseDTO {
	user, _ := app.CurrentUser()
	return SessionResponseDTO{
		User:          user,
		View:          string(app.View()),
		CartCount:     app.Cart.Count(),
		WishlistCount: len(app.Wishlist.Items()),
		Notices:       app.Notices(),
	}
}
