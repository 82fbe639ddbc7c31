package progress

import (
	"context"
	"strings"
	"sync"

	"codequest/internal/domain"
)

const (
	// ReferralMilestoneXP is the balance a referred user must reach before
	// the one-time bonus fires.
	ReferralMilestoneXP = 1000
	// ReferralBonusXP is the flat bonus granted at the milestone.
	ReferralBonusXP = 100
)

// ReferralLedger attributes referral codes and pays the one-time milestone
// bonus. A code arriving on the entry URL is held in memory for the
// unauthenticated session only; it is never persisted on its own.
//
// The referrer-side mission completion is a local simulation: the real
// design implies a cross-account event delivered by a server, but this
// client flips the active profile's own REFERRAL missions instead.
type ReferralLedger struct {
	store *ProfileStore

	mu       sync.Mutex
	captured string
}

func NewReferralLedger(store *ProfileStore) *ReferralLedger {
	return &ReferralLedger{store: store}
}

// Capture remembers a referral code from the entry URL. Empty codes are
// ignored; a later capture overwrites an earlier one (last load wins).
func (l *ReferralLedger) Capture(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	l.mu.Lock()
	l.captured = code
	l.mu.Unlock()
}

// Captured returns the code held for the current unauthenticated session.
func (l *ReferralLedger) Captured() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.captured
}

// Attribute stamps the captured code onto a profile at signup. Only a
// first-ever signup is attributed and ReferredBy is never overwritten. The
// captured code is consumed either way once a profile exists.
func (l *ReferralLedger) Attribute(p *domain.UserProfile) {
	l.mu.Lock()
	code := l.captured
	l.captured = ""
	l.mu.Unlock()
	if code == "" || p.ReferredBy != "" {
		return
	}
	p.ReferredBy = code
}

// applyMilestone evaluates the referral milestone rule against an in-flight
// profile copy and reports whether the bonus was granted. One-shot: once
// claimed it never fires again for that profile.
func (l *ReferralLedger) applyMilestone(p *domain.UserProfile) bool {
	if p.ReferralBonusClaimed || p.ReferredBy == "" || p.XP < ReferralMilestoneXP {
		return false
	}
	p.XP += ReferralBonusXP
	p.ReferralBonusClaimed = true
	return true
}

// MarkReferralMissionComplete flips the active profile's REFERRAL-type
// missions to completed. Decoupled from the referee's milestone event.
func (l *ReferralLedger) MarkReferralMissionComplete(ctx context.Context) (*domain.UserProfile, error) {
	p, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range p.Missions {
		if p.Missions[i].Type == domain.MissionReferral {
			p.Missions[i].IsCompleted = true
		}
	}
	if err := l.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
