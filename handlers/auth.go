package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/satheeshds/fintrack/auth"
	"github.com/satheeshds/fintrack/ledger"
	"github.com/satheeshds/fintrack/logger"
	"github.com/satheeshds/fintrack/models"
)

type meData struct {
	User   models.User    `json:"user"`
	Owner  models.Owner   `json:"owner"`
	Groups []models.Group `json:"groups"`
}

func (h *Handler) newSession(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	token, expiresAt, err := h.issuer.Issue(u.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, status, models.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u,
		Owner:     u.Owner(),
	})
}

// Register creates a user account
// @Summary      Register
// @Description  Create a user with a default account and return a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.Credentials  true  "Username and password"
// @Success      201          {object}  Response{data=models.Session}
// @Failure      400          {object}  Response{error=string}
// @Failure      409          {object}  Response{error=string}
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	u, err := h.store.CreateUser(r.Context(), input.Username, hash)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	l := logger.FromContext(r.Context())
	l.Info().Int("user_id", u.ID).Msg("user registered")
	h.newSession(w, r, http.StatusCreated, u)
}

// Login exchanges credentials for a session token
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.Credentials  true  "Username and password"
// @Success      200          {object}  Response{data=models.Session}
// @Failure      401          {object}  Response{error=string}
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	u, err := h.store.GetUserByUsername(r.Context(), strings.TrimSpace(input.Username))
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, input.Password); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	h.newSession(w, r, http.StatusOK, u)
}

// Logout revokes the current token
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=map[string]string}
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.issuer.Revoke(r.Context(), claimsFrom(r.Context())); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user and the groups they can act as
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=meData}
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	u, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	groups, err := h.store.ListGroups(r.Context(), u.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meData{User: u, Owner: ownerFrom(r.Context()), Groups: groups})
}
