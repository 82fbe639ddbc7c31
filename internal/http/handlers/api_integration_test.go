package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codequest/internal/domain"
	"codequest/internal/http/handlers"
	"codequest/internal/http/httpapi"
	"codequest/internal/infra"
	"codequest/internal/progress"
	"codequest/internal/providers/content"
	"codequest/internal/store"

	"github.com/rs/zerolog"
)

type sessionDTO struct {
	Token       string             `json:"token"`
	Profile     domain.UserProfile `json:"profile"`
	FirstSignIn bool               `json:"first_sign_in"`
}

func newTestRouter(t *testing.T) (http.Handler, *handlers.App) {
	t.Helper()
	kv := store.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })

	logger := zerolog.Nop()
	profiles := progress.NewProfileStore(kv, logger)
	referrals := progress.NewReferralLedger(profiles)
	subs := progress.NewSubscriptionLedger(profiles)
	missions := progress.NewController(profiles, referrals, logger)
	accounts := progress.NewAccountService(profiles, subs, referrals, logger)

	cfg := &infra.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		DefaultLocale:   "en",
		RateLimitPerMin: 1000,
	}
	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		Profiles:  profiles,
		Accounts:  accounts,
		Missions:  missions,
		Subs:      subs,
		Referrals: referrals,
		Content:   content.NewStaticGenerator(),
	}
	return httpapi.NewRouter(app), app
}

func signUp(t *testing.T, router http.Handler, name, email string) sessionDTO {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"name":   name,
		"email":  email,
		"method": "email",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("/v1/auth/signup status = %d, want %d: %s", res.Code, http.StatusOK, res.Body.String())
	}
	var session sessionDTO
	if err := json.Unmarshal(res.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected session token")
	}
	return session
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func decodeProfile(t *testing.T, res *httptest.ResponseRecorder) domain.UserProfile {
	t.Helper()
	var p domain.UserProfile
	if err := json.Unmarshal(res.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	return p
}

func TestSignUpIssuesFreshProfile(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	if !session.FirstSignIn {
		t.Fatal("expected first_sign_in = true")
	}
	if session.Profile.XP != 0 {
		t.Fatalf("xp = %d, want 0", session.Profile.XP)
	}
	if len(session.Profile.Missions) != 12 {
		t.Fatalf("missions = %d, want 12", len(session.Profile.Missions))
	}
	if !session.Profile.IsTrial {
		t.Fatal("expected trial on first signup")
	}
}

func TestClockInAndCollectFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/missions/clock-in", session.Token, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("clock-in status = %d: %s", res.Code, res.Body.String())
	}
	profile := decodeProfile(t, res)
	if !profile.IsClockedIn {
		t.Fatal("expected clocked in")
	}
	checkin := profile.Mission("m_d1")
	if checkin == nil || !checkin.IsCompleted {
		t.Fatal("expected m_d1 completed after clock-in")
	}
	if profile.XP != 0 {
		t.Fatalf("clock-in must not credit XP, got %d", profile.XP)
	}

	res = doJSON(t, router, http.MethodPost, "/v1/missions/m_d1/collect", session.Token, map[string]int{"xp_reward": 10})
	if res.Code != http.StatusOK {
		t.Fatalf("collect status = %d: %s", res.Code, res.Body.String())
	}
	profile = decodeProfile(t, res)
	if profile.XP != 10 {
		t.Fatalf("xp after collect = %d, want 10", profile.XP)
	}

	// Collecting again is a no-op, not an error.
	res = doJSON(t, router, http.MethodPost, "/v1/missions/m_d1/collect", session.Token, map[string]int{"xp_reward": 10})
	if res.Code != http.StatusOK {
		t.Fatalf("second collect status = %d", res.Code)
	}
	profile = decodeProfile(t, res)
	if profile.XP != 10 {
		t.Fatalf("xp after double collect = %d, want 10", profile.XP)
	}
}

func TestCollectUnknownMission(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/missions/m_zz/collect", session.Token, map[string]int{"xp_reward": 10})
	if res.Code != http.StatusNotFound {
		t.Fatalf("unknown mission status = %d, want %d", res.Code, http.StatusNotFound)
	}
}

func TestRedeemInsufficientXPLeavesProfileUnchanged(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/xp/gain", session.Token, map[string]int{"amount": 500})
	if res.Code != http.StatusOK {
		t.Fatalf("gain status = %d", res.Code)
	}

	res = doJSON(t, router, http.MethodPost, "/v1/subscription/redeem", session.Token, map[string]any{"cost": 600, "tier": "MONTHLY"})
	if res.Code != http.StatusConflict {
		t.Fatalf("redeem status = %d, want %d", res.Code, http.StatusConflict)
	}

	res = doJSON(t, router, http.MethodGet, "/v1/me", session.Token, nil)
	profile := decodeProfile(t, res)
	if profile.XP != 500 {
		t.Fatalf("xp after rejected redeem = %d, want 500", profile.XP)
	}
	if profile.SubscriptionTier != "" {
		t.Fatalf("tier after rejected redeem = %q, want empty", profile.SubscriptionTier)
	}

	res = doJSON(t, router, http.MethodPost, "/v1/subscription/redeem", session.Token, map[string]any{"cost": 400, "tier": "MONTHLY"})
	if res.Code != http.StatusOK {
		t.Fatalf("redeem status = %d: %s", res.Code, res.Body.String())
	}
	profile = decodeProfile(t, res)
	if profile.XP != 100 {
		t.Fatalf("xp after redeem = %d, want 100", profile.XP)
	}
	if profile.SubscriptionTier != domain.TierMonthly {
		t.Fatalf("tier after redeem = %q, want %q", profile.SubscriptionTier, domain.TierMonthly)
	}
}

func TestSubscribeUnknownTier(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/subscription/subscribe", session.Token, map[string]string{"tier": "PLATINUM"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("subscribe status = %d, want %d", res.Code, http.StatusBadRequest)
	}
}

func TestReferralCaptureAttributesNextSignup(t *testing.T) {
	router, _ := newTestRouter(t)

	res := doJSON(t, router, http.MethodPost, "/v1/referral/capture", "", map[string]string{"code": "FRIEND-42"})
	if res.Code != http.StatusNoContent {
		t.Fatalf("capture status = %d, want %d", res.Code, http.StatusNoContent)
	}

	session := signUp(t, router, "Ada", "ada@example.com")
	if session.Profile.ReferredBy != "FRIEND-42" {
		t.Fatalf("referred_by = %q, want %q", session.Profile.ReferredBy, "FRIEND-42")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/v1/me", "/v1/stats/summary", "/v1/export"} {
		res := doJSON(t, router, http.MethodGet, path, "", nil)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want %d", path, res.Code, http.StatusUnauthorized)
		}
	}
}

func TestContentFlashcardsServedByFallback(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/content/flashcards", session.Token, map[string]any{"topic": "pointers", "count": 3})
	if res.Code != http.StatusOK {
		t.Fatalf("flashcards status = %d: %s", res.Code, res.Body.String())
	}
	var payload struct {
		Flashcards []content.Flashcard `json:"flashcards"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode flashcards: %v", err)
	}
	if len(payload.Flashcards) != 3 {
		t.Fatalf("flashcards = %d, want 3", len(payload.Flashcards))
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPut, "/v1/prefs/last-view", session.Token, map[string]string{"last_view": "arcade"})
	if res.Code != http.StatusOK {
		t.Fatalf("last-view update status = %d", res.Code)
	}
	res = doJSON(t, router, http.MethodPut, "/v1/prefs/language", session.Token, map[string]string{"language": "es"})
	if res.Code != http.StatusOK {
		t.Fatalf("language update status = %d", res.Code)
	}

	res = doJSON(t, router, http.MethodGet, "/v1/prefs", session.Token, nil)
	var prefs struct {
		LastView string `json:"last_view"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("decode prefs: %v", err)
	}
	if prefs.LastView != "arcade" || prefs.Language != "es" {
		t.Fatalf("prefs = %+v, want arcade/es", prefs)
	}
}

func TestSignOutKeepsSavedAccounts(t *testing.T) {
	router, _ := newTestRouter(t)
	session := signUp(t, router, "Ada", "ada@example.com")

	res := doJSON(t, router, http.MethodPost, "/v1/auth/signout", session.Token, nil)
	if res.Code != http.StatusNoContent {
		t.Fatalf("signout status = %d, want %d", res.Code, http.StatusNoContent)
	}

	res = doJSON(t, router, http.MethodGet, "/v1/accounts", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("accounts status = %d", res.Code)
	}
	var payload struct {
		Accounts []domain.SavedAccount `json:"accounts"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode accounts: %v", err)
	}
	if len(payload.Accounts) != 1 || payload.Accounts[0].Email != "ada@example.com" {
		t.Fatalf("accounts = %+v, want ada@example.com remembered", payload.Accounts)
	}
}
