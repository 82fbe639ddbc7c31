package httpapi

import (
	"net/http"
	"time"

	"codequest/internal/http/handlers"
	"codequest/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if app.Config != nil {
		if len(app.Config.AllowedOrigins) > 0 {
			r.Use(middleware.CORS(app.Config.AllowedOrigins))
		}
		if app.Config.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		}
		r.Use(middleware.I18N(app.Config.DefaultLocale, app.CountryLookup()))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/location", app.Location)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", app.AuthSignUp)
		r.Post("/login", app.AuthLogin)
		r.With(middleware.AuthJWT(app.JWTSecret)).Post("/signout", app.AuthSignOut)
	})
	r.Get("/v1/accounts", app.AuthAccounts)

	r.Post("/v1/referral/capture", app.ReferralCapture)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.JWTSecret))

		r.Get("/v1/me", app.Me)
		r.Get("/v1/stats/summary", app.StatsSummary)
		r.Get("/v1/export", app.Export)

		r.Route("/v1/missions", func(r chi.Router) {
			r.Get("/", app.MissionsList)
			r.Post("/clock-in", app.MissionsClockIn)
			r.Post("/{id}/collect", app.MissionsCollect)
		})

		r.Post("/v1/xp/gain", app.XPGain)

		r.Route("/v1/subscription", func(r chi.Router) {
			r.Post("/subscribe", app.SubscriptionSubscribe)
			r.Post("/redeem", app.SubscriptionRedeem)
		})

		r.Post("/v1/referral/mission-complete", app.ReferralMissionComplete)

		r.Route("/v1/prefs", func(r chi.Router) {
			r.Get("/", app.Prefs)
			r.Get("/last-view", app.PrefLastView)
			r.Put("/last-view", app.PrefLastViewUpdate)
			r.Get("/language", app.PrefLanguage)
			r.Put("/language", app.PrefLanguageUpdate)
		})

		r.Route("/v1/content", func(r chi.Router) {
			r.Post("/flashcards", app.ContentFlashcards)
			r.Post("/quiz", app.ContentQuiz)
			r.Post("/lesson", app.ContentLesson)
			r.Post("/exam", app.ContentExam)
			r.Post("/search", app.ContentSearch)
			r.Post("/chat", app.ContentChat)
			r.Post("/run", app.ContentRunCode)
			r.Post("/review", app.ContentReviewCode)
		})
	})

	return r
}
