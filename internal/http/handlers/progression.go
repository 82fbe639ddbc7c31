package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"codequest/internal/domain"
)

type gainXPRequest struct {
	Amount int `json:"amount"`
}

// XPGain credits XP earned outside the mission flow, for example finishing a
// lesson or winning a game round.
func (a *App) XPGain(w http.ResponseWriter, r *http.Request) {
	var req gainXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	profile, err := a.Missions.GainXP(r.Context(), req.Amount)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}

type subscribeRequest struct {
	Tier string `json:"tier"`
}

func (a *App) SubscriptionSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	tier, ok := domain.ParseTier(strings.ToUpper(req.Tier))
	if !ok {
		a.domainError(w, domain.ErrUnsupportedTier)
		return
	}
	profile, err := a.Subs.Subscribe(r.Context(), tier)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}

type redeemRequest struct {
	Cost int    `json:"cost"`
	Tier string `json:"tier"`
}

// SubscriptionRedeem exchanges XP for a subscription tier. The debit and the
// tier change land together or not at all.
func (a *App) SubscriptionRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	tier, ok := domain.ParseTier(strings.ToUpper(req.Tier))
	if !ok {
		a.domainError(w, domain.ErrUnsupportedTier)
		return
	}
	profile, err := a.Subs.RedeemXP(r.Context(), req.Cost, tier)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}

type captureRequest struct {
	Code string `json:"code"`
}

// ReferralCapture stages a referral code ahead of signup. The code is held in
// memory and consumed by the next first-ever sign-in.
func (a *App) ReferralCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "code required")
		return
	}
	a.Referrals.Capture(req.Code)
	w.WriteHeader(http.StatusNoContent)
}

// ReferralMissionComplete marks the invite-a-friend missions done for the
// active profile.
func (a *App) ReferralMissionComplete(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Referrals.MarkReferralMissionComplete(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}
