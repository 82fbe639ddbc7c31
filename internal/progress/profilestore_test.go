package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"codequest/internal/domain"
	"codequest/internal/store"
)

func TestLoadCorruptProfileFailsClosed(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	if err := kv.Set(ctx, "profile", "{not json"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	ps := NewProfileStore(kv, zerolog.Nop())
	_, err := ps.Load(ctx)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Load() on corrupt record = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("Load() on corrupt record = %v, want ErrCorruptRecord", err)
	}
}

func TestSavedAccountsCorruptRecordTreatedAsEmpty(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	if err := kv.Set(ctx, "saved-accounts", "[[["); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	ps := NewProfileStore(kv, zerolog.Nop())
	if accounts := ps.SavedAccounts(ctx); len(accounts) != 0 {
		t.Fatalf("SavedAccounts() on corrupt record = %d entries, want 0", len(accounts))
	}
}

func TestReplaceBroadcastsToSubscribers(t *testing.T) {
	ps := NewProfileStore(store.NewMemory(), zerolog.Nop())
	var seen []int
	ps.Subscribe(func(p domain.UserProfile) {
		seen = append(seen, p.XP)
	})

	ctx := context.Background()
	if err := ps.Replace(ctx, &domain.UserProfile{Email: "a@x.io", XP: 10}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if err := ps.Replace(ctx, &domain.UserProfile{Email: "a@x.io", XP: 25}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 25 {
		t.Fatalf("subscriber saw %v, want [10 25]", seen)
	}
}

func TestReplaceRefreshesXPCache(t *testing.T) {
	ps := NewProfileStore(store.NewMemory(), zerolog.Nop())
	ctx := context.Background()
	if err := ps.Replace(ctx, &domain.UserProfile{Email: "a@x.io", XP: 360}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	xp, ok := ps.CachedXP(ctx)
	if !ok || xp != 360 {
		t.Fatalf("CachedXP() = %d ok=%v, want 360", xp, ok)
	}
}

func TestPreferencesSurviveSignOut(t *testing.T) {
	ps := NewProfileStore(store.NewMemory(), zerolog.Nop())
	ctx := context.Background()
	if err := ps.Replace(ctx, &domain.UserProfile{Email: "a@x.io"}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if err := ps.SetLastView(ctx, "flashcards"); err != nil {
		t.Fatalf("SetLastView() error: %v", err)
	}
	if err := ps.SetLanguage(ctx, "go"); err != nil {
		t.Fatalf("SetLanguage() error: %v", err)
	}
	if err := ps.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if v := ps.LastView(ctx); v != "flashcards" {
		t.Fatalf("LastView() = %q, want flashcards", v)
	}
	if v := ps.Language(ctx); v != "go" {
		t.Fatalf("Language() = %q, want go", v)
	}
}
