package handlers

import "net/http"

// StatsSummary reports a compact progression snapshot for the dashboard.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Missions.EnsureRollover(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	completed := 0
	collected := 0
	for _, m := range profile.Missions {
		if m.IsCompleted {
			completed++
		}
		if m.IsCollected {
			collected++
		}
	}
	a.json(w, http.StatusOK, map[string]any{
		"xp":                 profile.XP,
		"is_clocked_in":      profile.IsClockedIn,
		"missions_total":     len(profile.Missions),
		"missions_completed": completed,
		"missions_collected": collected,
		"is_trial":           profile.IsTrial,
		"subscription_tier":  profile.SubscriptionTier,
	})
}
