package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"codequest/internal/domain"
)

// AccountService drives the sign-in lifecycle: creating profiles, granting
// the one-time trial, attributing referrals and maintaining the saved
// accounts cache.
type AccountService struct {
	store     *ProfileStore
	subs      *SubscriptionLedger
	referrals *ReferralLedger
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAccountService(store *ProfileStore, subs *SubscriptionLedger, referrals *ReferralLedger, logger zerolog.Logger) *AccountService {
	return &AccountService{store: store, subs: subs, referrals: referrals, logger: logger, now: time.Now}
}

// SignInParams carries the client-supplied identity for signup/login. The
// engine is client-trusted; there is no credential verification here.
type SignInParams struct {
	Name    string
	Email   string
	Avatar  string
	Method  string
	Country string
}

// SignIn signs an account in, creating a fresh profile when none is active.
// The returned bool reports whether this was a first-ever signup.
//
// First-ever signups (email absent from the saved-accounts history) get the
// trial window and referral attribution. Returning accounts get neither;
// their XP is restored from the cache kept outside the profile record, so a
// sign-out/sign-in cycle does not erase progression.
func (s *AccountService) SignIn(ctx context.Context, params SignInParams) (*domain.UserProfile, bool, error) {
	email := strings.TrimSpace(params.Email)

	if active, err := s.store.Load(ctx); err == nil && strings.EqualFold(active.Email, email) {
		// Same account is already signed in on this device; keep its record.
		if err := s.rememberFrom(ctx, active, params.Method); err != nil {
			return nil, false, err
		}
		return active, false, nil
	}

	first := !s.store.HasAccount(ctx, email)
	today := s.now().Format(dateLayout)
	p := &domain.UserProfile{
		Name:           strings.TrimSpace(params.Name),
		Email:          email,
		Avatar:         params.Avatar,
		Country:        params.Country,
		JoinedDate:     today,
		LastActiveDate: today,
		Missions:       MissionCatalog(),
	}
	if first {
		p.ReferralCode = newReferralCode()
		s.subs.GrantTrial(p)
		s.referrals.Attribute(p)
		s.logger.Info().Str("email", email).Bool("referred", p.ReferredBy != "").Msg("first signup, trial granted")
	} else if xp, ok := s.store.CachedXP(ctx); ok {
		p.XP = xp
	}
	if err := s.rememberFrom(ctx, p, params.Method); err != nil {
		return nil, false, err
	}
	if err := s.store.Replace(ctx, p); err != nil {
		return nil, false, err
	}
	return p, first, nil
}

// newReferralCode mints the shareable code other users enter at signup.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// SignOut clears the active profile. XP cache and saved accounts survive.
func (s *AccountService) SignOut(ctx context.Context) error {
	return s.store.SignOut(ctx)
}

func (s *AccountService) rememberFrom(ctx context.Context, p *domain.UserProfile, method string) error {
	if method == "" {
		method = "password"
	}
	return s.store.RememberAccount(ctx, domain.SavedAccount{
		Name:      p.Name,
		Email:     p.Email,
		Avatar:    p.Avatar,
		Method:    method,
		LastLogin: s.now(),
	})
}
