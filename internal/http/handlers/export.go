package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"codequest/pkg/zip"
)

// Export bundles the active profile, the saved-account history and the device
// preferences into a zip download.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	profile, err := a.Profiles.Load(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		a.domainError(w, err)
		return
	}
	accountsJSON, err := json.MarshalIndent(a.Profiles.SavedAccounts(r.Context()), "", "  ")
	if err != nil {
		a.domainError(w, err)
		return
	}
	prefsJSON, err := json.MarshalIndent(prefsDTO{
		LastView: a.Profiles.LastView(r.Context()),
		Language: a.Profiles.Language(r.Context()),
	}, "", "  ")
	if err != nil {
		a.domainError(w, err)
		return
	}

	archive := zip.Archive([]zip.Entry{
		{Filename: "profile.json", MIME: "application/json", Data: profileJSON},
		{Filename: "accounts.json", MIME: "application/json", Data: accountsJSON},
		{Filename: "prefs.json", MIME: "application/json", Data: prefsJSON},
	})
	if archive == nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	filename := "codequest-export-" + time.Now().Format("2006-01-02") + ".zip"
	if a.Exports != nil {
		if _, err := a.Exports.Write(r.Context(), filename, archive); err != nil {
			a.Logger.Warn().Err(err).Msg("export archive copy failed")
		}
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
