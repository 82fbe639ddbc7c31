package handlers

import (
	"encoding/json"
	"net/http"
)

type prefsDTO struct {
	LastView string `json:"last_view"`
	Language string `json:"language"`
}

// Prefs returns device preferences. These live outside the profile record and
// survive sign-out.
func (a *App) Prefs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, prefsDTO{
		LastView: a.Profiles.LastView(r.Context()),
		Language: a.Profiles.Language(r.Context()),
	})
}

func (a *App) PrefLastView(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"last_view": a.Profiles.LastView(r.Context())})
}

func (a *App) PrefLastViewUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LastView string `json:"last_view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LastView == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "last_view required")
		return
	}
	if err := a.Profiles.SetLastView(r.Context(), req.LastView); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"last_view": req.LastView})
}

func (a *App) PrefLanguage(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"language": a.Profiles.Language(r.Context())})
}

func (a *App) PrefLanguageUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Language == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "language required")
		return
	}
	if err := a.Profiles.SetLanguage(r.Context(), req.Language); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"language": req.Language})
}
