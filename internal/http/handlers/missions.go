package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MissionsList returns the mission list for today, regenerating it first when
// the stored day is stale.
func (a *App) MissionsList(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Missions.EnsureRollover(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"missions": profile.Missions})
}

// MissionsClockIn marks today's login missions complete. Repeat calls on the
// same day are no-ops.
func (a *App) MissionsClockIn(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Missions.ClockIn(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}

type collectRequest struct {
	XPReward int `json:"xp_reward"`
}

// MissionsCollect credits a mission's reward. Collecting an already-collected
// mission returns the profile unchanged.
func (a *App) MissionsCollect(w http.ResponseWriter, r *http.Request) {
	missionID := chi.URLParam(r, "id")
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	profile, err := a.Missions.CollectReward(r.Context(), missionID, req.XPReward)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}
