package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/satheeshds/fintrack/auth"
	"github.com/satheeshds/fintrack/ledger"
	"github.com/satheeshds/fintrack/logger"
	"github.com/satheeshds/fintrack/models"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// conflictCodes are validation failures caused by the current state of the
// ledger rather than by the request itself.
var conflictCodes = map[string]bool{
	ledger.ErrLastAccount.Code:      true,
	ledger.ErrAlreadyConfirmed.Code: true,
	ledger.ErrUsernameTaken.Code:    true,
	ledger.ErrDuplicateName.Code:    true,
	ledger.ErrAlreadyMember.Code:    true,
}

// writeStoreError maps a ledger error to its HTTP status. Storage failures are
// logged and reported without detail.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *ledger.ValidationError
	switch {
	case errors.As(err, &validation):
		status := http.StatusBadRequest
		if conflictCodes[validation.Code] {
			status = http.StatusConflict
		}
		writeError(w, status, validation.Message)
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		l := logger.FromContext(r.Context())
		l.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// pathID parses the {name} URL parameter as a positive integer, writing a 400
// on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// RequestLogger stores a request-scoped logger in the context and logs every
// request when it completes.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

type ctxKey int

const (
	claimsKey ctxKey = iota
	ownerKey
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate requires a valid bearer token and resolves the owner the
// request acts as: the user, or the group named by X-Group-ID when the user is
// a member of it.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization token not provided")
			return
		}

		claims, err := h.issuer.Verify(r.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		owner := models.UserOwner(claims.UserID)
		if raw := r.Header.Get("X-Group-ID"); raw != "" {
			groupID, err := strconv.Atoi(raw)
			if err != nil || groupID <= 0 {
				writeError(w, http.StatusBadRequest, "invalid X-Group-ID")
				return
			}
			member, err := h.store.IsGroupMember(r.Context(), groupID, claims.UserID)
			if err != nil {
				writeStoreError(w, r, err)
				return
			}
			if !member {
				writeError(w, http.StatusForbidden, "not a member of this group")
				return
			}
			owner = models.GroupOwner(groupID)
		}

		l := logger.FromContext(r.Context()).With().
			Int("user_id", claims.UserID).
			Str("owner", string(owner)).
			Logger()
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, ownerKey, owner)
		ctx = logger.WithContext(ctx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func ownerFrom(ctx context.Context) models.Owner {
	o, _ := ctx.Value(ownerKey).(models.Owner)
	return o
}
