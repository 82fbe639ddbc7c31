package progress

import (
	"context"
	"time"

	"codequest/internal/domain"
)

// TrialDuration is the premium window granted at first-ever signup.
const TrialDuration = 7 * 24 * time.Hour

// SubscriptionLedger manages the mutually exclusive trial/subscription state
// and XP-for-tier redemption.
type SubscriptionLedger struct {
	store *ProfileStore
	now   func() time.Time
}

func NewSubscriptionLedger(store *ProfileStore) *SubscriptionLedger {
	return &SubscriptionLedger{store: store, now: time.Now}
}

// Subscribe assigns a paid tier and ends any running trial. Payment is
// authorized externally; the ledger only records the outcome.
func (l *SubscriptionLedger) Subscribe(ctx context.Context, tier domain.SubscriptionTier) (*domain.UserProfile, error) {
	p, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p.SubscriptionTier = tier
	p.IsTrial = false
	if err := l.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RedeemXP spends XP on a tier. The debit and the tier change are applied
// together or not at all; an insufficient balance rejects the redemption
// with domain.ErrInsufficientXP and mutates nothing.
func (l *SubscriptionLedger) RedeemXP(ctx context.Context, cost int, tier domain.SubscriptionTier) (*domain.UserProfile, error) {
	if cost < 0 {
		return nil, domain.ErrInvalidAmount
	}
	p, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if p.XP < cost {
		return nil, domain.ErrInsufficientXP
	}
	p.XP -= cost
	p.SubscriptionTier = tier
	p.IsTrial = false
	if err := l.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GrantTrial marks a freshly created profile as trialing. Callers only
// invoke it on first-ever signups (email absent from the saved-accounts
// history); a returning login never reaches it, so the trial window is
// never reset.
func (l *SubscriptionLedger) GrantTrial(p *domain.UserProfile) {
	p.IsTrial = true
	p.TrialEndDate = l.now().Add(TrialDuration)
}
