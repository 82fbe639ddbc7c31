package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"codequest/internal/domain"
	"codequest/internal/infra"
	"codequest/internal/infra/geoip"
	"codequest/internal/middleware"
	"codequest/internal/progress"
	"codequest/internal/providers/content"
	"codequest/internal/storage"
)

// App carries the wired services every handler needs. Handlers are methods on
// App so tests can assemble one against in-memory services.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	JWTSecret string

	Profiles  *progress.ProfileStore
	Accounts  *progress.AccountService
	Missions  *progress.Controller
	Subs      *progress.SubscriptionLedger
	Referrals *progress.ReferralLedger

	Content content.Generator
	Geo     geoip.CountryResolver

	// Exports is optional; when set, export archives are also written here.
	Exports *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// domainError translates progression errors into HTTP responses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusUnauthorized, "no_profile", "no active profile")
	case errors.Is(err, domain.ErrMissionNotFound):
		a.error(w, http.StatusNotFound, "mission_not_found", "unknown mission")
	case errors.Is(err, domain.ErrInvalidAmount):
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must not be negative")
	case errors.Is(err, domain.ErrInsufficientXP):
		a.error(w, http.StatusConflict, "insufficient_xp", "not enough XP for this redemption")
	case errors.Is(err, domain.ErrUnsupportedTier):
		a.error(w, http.StatusBadRequest, "unsupported_tier", "unknown subscription tier")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
