package handlers

import (
	"context"
	"net/http"
	"time"

	"codequest/internal/middleware"
)

// Location reports the best-effort country for the caller. Header hints win;
// the resolver chain is consulted only when they are absent.
func (a *App) Location(w http.ResponseWriter, r *http.Request) {
	country := middleware.ResolveCountry(r, a.CountryLookup())
	a.json(w, http.StatusOK, map[string]string{"country": country})
}

// CountryLookup adapts the resolver chain to the middleware callback shape.
func (a *App) CountryLookup() middleware.CountryLookup {
	if a.Geo == nil {
		return nil
	}
	return func(ip string) (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return a.Geo.CountryCode(ctx, ip)
	}
}
