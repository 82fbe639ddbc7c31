package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"codequest/internal/domain"
	"codequest/internal/middleware"
	"codequest/internal/progress"
)

type signUpRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	Method       string `json:"method"`
	ReferralCode string `json:"referral_code"`
}

type sessionResponse struct {
	Token       string              `json:"token"`
	Profile     *domain.UserProfile `json:"profile"`
	FirstSignIn bool                `json:"first_sign_in"`
}

// AuthSignUp creates or resumes a profile for the given account and issues a
// session token. A referral code in the payload is captured before sign-in so
// a brand-new account gets attributed to its referrer.
func (a *App) AuthSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name and email required")
		return
	}
	if req.Method == "" {
		req.Method = "email"
	}
	if req.ReferralCode != "" {
		a.Referrals.Capture(req.ReferralCode)
	}

	profile, first, err := a.Accounts.SignIn(r.Context(), progress.SignInParams{
		Name:    req.Name,
		Email:   req.Email,
		Avatar:  req.Avatar,
		Method:  req.Method,
		Country: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign up failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create profile")
		return
	}

	token, err := a.issueToken(r, profile)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, sessionResponse{Token: token, Profile: profile, FirstSignIn: first})
}

// AuthLogin resumes an account. It shares the sign-in path with AuthSignUp;
// a returning email gets its cached XP back instead of a fresh trial.
func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	a.AuthSignUp(w, r)
}

func (a *App) AuthSignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.Accounts.SignOut(r.Context()); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuthAccounts returns the saved-account history for the login screen.
func (a *App) AuthAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := a.Profiles.SavedAccounts(r.Context())
	a.json(w, http.StatusOK, map[string]any{"accounts": accounts})
}

// Me returns the active profile after applying any pending daily rollover.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Missions.EnsureRollover(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}

func (a *App) issueToken(r *http.Request, p *domain.UserProfile) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      p.Email,
		Name:     p.Name,
		Tier:     string(p.SubscriptionTier),
		Locale:   middleware.LocaleFromContext(r.Context()),
		Exp:      time.Now().Add(24 * time.Hour).Unix(),
		Issuer:   "codequest",
		Audience: "codequest-web",
	})
}
