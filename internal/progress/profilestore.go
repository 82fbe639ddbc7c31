package progress

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"codequest/internal/domain"
	"codequest/internal/store"
)

// Stable keys in the durable store. xp-cache, last-view and language live
// outside the profile record on purpose: they survive sign-out.
const (
	keyProfile       = "profile"
	keyXPCache       = "xp-cache"
	keySavedAccounts = "saved-accounts"
	keyLastView      = "last-view"
	keyLanguage      = "language"
)

// MaxSavedAccounts caps the login-method cache.
const MaxSavedAccounts = 5

// ProfileStore owns the persisted UserProfile. It is the sole writer of the
// durable record; every mutation elsewhere produces a new profile value and
// hands it to Replace, which persists and broadcasts it.
type ProfileStore struct {
	kv     store.KV
	logger zerolog.Logger

	mu   sync.Mutex
	subs []func(domain.UserProfile)
}

func NewProfileStore(kv store.KV, logger zerolog.Logger) *ProfileStore {
	return &ProfileStore{kv: kv, logger: logger}
}

// Load returns a fresh copy of the stored profile. A missing record returns
// domain.ErrNotFound; an unparsable record is treated as absent so a corrupt
// store forces re-authentication instead of crashing the client.
func (s *ProfileStore) Load(ctx context.Context) (*domain.UserProfile, error) {
	raw, ok, err := s.kv.Get(ctx, keyProfile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	var p domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn().Err(err).Msg("stored profile is corrupt, treating as absent")
		return nil, errors.Join(domain.ErrNotFound, domain.ErrCorruptRecord)
	}
	return &p, nil
}

// Replace persists the profile as the new source of truth, refreshes the XP
// cache and synchronously notifies subscribers. Replacements are serialized
// so a transition is never observed half-applied.
func (s *ProfileStore) Replace(ctx context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyProfile, string(raw)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyXPCache, strconv.Itoa(p.XP)); err != nil {
		return err
	}
	for _, fn := range s.subs {
		fn(*p)
	}
	return nil
}

// Subscribe registers a callback invoked after every successful Replace.
// Callbacks run synchronously on the mutating goroutine.
func (s *ProfileStore) Subscribe(fn func(domain.UserProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SignOut removes the profile record. The XP cache, saved accounts and
// client preferences are deliberately kept.
func (s *ProfileStore) SignOut(ctx context.Context) error {
	return s.kv.Remove(ctx, keyProfile)
}

// CachedXP returns the XP value cached outside the profile record.
func (s *ProfileStore) CachedXP(ctx context.Context) (int, bool) {
	raw, ok, err := s.kv.Get(ctx, keyXPCache)
	if err != nil || !ok {
		return 0, false
	}
	xp, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || xp < 0 {
		return 0, false
	}
	return xp, true
}

// SavedAccounts returns the login-method cache, most recent first. Corrupt
// stored JSON yields an empty list.
func (s *ProfileStore) SavedAccounts(ctx context.Context) []domain.SavedAccount {
	raw, ok, err := s.kv.Get(ctx, keySavedAccounts)
	if err != nil || !ok {
		return nil
	}
	var accounts []domain.SavedAccount
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		s.logger.Warn().Err(err).Msg("saved accounts record is corrupt, treating as empty")
		return nil
	}
	return accounts
}

// HasAccount reports whether the email already appears in the saved-accounts
// history. This is the first-ever-signup check the trial grant and referral
// attribution hang off.
func (s *ProfileStore) HasAccount(ctx context.Context, email string) bool {
	for _, acct := range s.SavedAccounts(ctx) {
		if strings.EqualFold(acct.Email, email) {
			return true
		}
	}
	return false
}

// RememberAccount moves (or inserts) the account to the front of the cache,
// dropping duplicates by email and trimming to MaxSavedAccounts.
func (s *ProfileStore) RememberAccount(ctx context.Context, acct domain.SavedAccount) error {
	if acct.LastLogin.IsZero() {
		acct.LastLogin = time.Now()
	}
	existing := s.SavedAccounts(ctx)
	accounts := make([]domain.SavedAccount, 0, len(existing)+1)
	accounts = append(accounts, acct)
	for _, a := range existing {
		if strings.EqualFold(a.Email, acct.Email) {
			continue
		}
		accounts = append(accounts, a)
	}
	if len(accounts) > MaxSavedAccounts {
		accounts = accounts[:MaxSavedAccounts]
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keySavedAccounts, string(raw))
}

// LastView returns the last-selected view, persisted independently of the
// profile so it survives sign-out.
func (s *ProfileStore) LastView(ctx context.Context) string {
	v, _, _ := s.kv.Get(ctx, keyLastView)
	return v
}

func (s *ProfileStore) SetLastView(ctx context.Context, view string) error {
	return s.kv.Set(ctx, keyLastView, view)
}

// Language returns the last-selected content language.
func (s *ProfileStore) Language(ctx context.Context) string {
	v, _, _ := s.kv.Get(ctx, keyLanguage)
	return v
}

func (s *ProfileStore) SetLanguage(ctx context.Context, lang string) error {
	return s.kv.Set(ctx, keyLanguage, lang)
}
