package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"codequest/internal/http/handlers"
	httpapi "codequest/internal/http/httpapi"
	"codequest/internal/infra"
	"codequest/internal/infra/credentials"
	"codequest/internal/infra/geoip"
	"codequest/internal/progress"
	"codequest/internal/providers/content"
	"codequest/internal/storage"
	"codequest/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	kv, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer kv.Close()

	profiles := progress.NewProfileStore(kv, logger)
	referrals := progress.NewReferralLedger(profiles)
	subs := progress.NewSubscriptionLedger(profiles)
	missions := progress.NewController(profiles, referrals, logger)
	accounts := progress.NewAccountService(profiles, subs, referrals, logger)

	generator := buildGenerator(ctx, cfg, kv, logger)
	resolver := buildResolver(cfg, logger)

	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		Profiles:  profiles,
		Accounts:  accounts,
		Missions:  missions,
		Subs:      subs,
		Referrals: referrals,
		Content:   generator,
		Geo:       resolver,
	}
	if cfg.ExportDir != "" {
		exports, err := storage.NewFileStore(cfg.ExportDir)
		if err != nil {
			logger.Warn().Err(err).Msg("export dir unavailable")
		} else {
			app.Exports = exports
		}
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *infra.Config) (store.KV, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return store.OpenPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.OpenSQLite(ctx, cfg.SQLitePath)
	}
}

// buildGenerator wires the Gemini generator when a key is available, from the
// environment or from the provisioned credentials store. Without a key every
// request is served by the deterministic static generator.
func buildGenerator(ctx context.Context, cfg *infra.Config, kv store.KV, logger infra.Logger) content.Generator {
	static := content.NewStaticGenerator()

	apiKey := cfg.GeminiAPIKey
	if apiKey == "" {
		lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		stored, err := credentials.NewStore(kv).GeminiAPIKey(lookupCtx)
		if err != nil {
			logger.Warn().Err(err).Msg("credentials lookup failed")
		}
		apiKey = stored
	}
	if apiKey == "" {
		logger.Info().Msg("no gemini api key, using static content")
		return static
	}

	generator, err := content.NewGeminiGenerator(content.GeminiOptions{
		APIKey:   apiKey,
		Model:    cfg.GeminiModel,
		BaseURL:  cfg.GeminiBaseURL,
		Fallback: static,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("gemini init failed, using static content")
		return static
	}
	return generator
}

// buildResolver assembles the country resolver chain, local database first,
// HTTP lookup second. Either half may be absent.
func buildResolver(cfg *infra.Config, logger infra.Logger) geoip.CountryResolver {
	var resolvers []geoip.CountryResolver

	if cfg.GeoIPDBPath != "" {
		db, err := geoip.NewDBResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable")
		} else if db != nil {
			resolvers = append(resolvers, db)
		}
	}
	if cfg.GeoHTTPBaseURL != "" {
		resolvers = append(resolvers, geoip.NewHTTPResolver(cfg.GeoHTTPBaseURL, nil))
	}
	if len(resolvers) == 0 {
		return nil
	}
	return geoip.NewChain(resolvers...)
}
