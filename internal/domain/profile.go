package domain

import "time"

// SubscriptionTier enumerates purchasable plans.
type SubscriptionTier string

const (
	TierWeekly   SubscriptionTier = "WEEKLY"
	TierMonthly  SubscriptionTier = "MONTHLY"
	TierYearly   SubscriptionTier = "YEARLY"
	TierLifetime SubscriptionTier = "LIFETIME"
)

// ParseTier validates a tier string coming from the client.
func ParseTier(s string) (SubscriptionTier, bool) {
	switch SubscriptionTier(s) {
	case TierWeekly, TierMonthly, TierYearly, TierLifetime:
		return SubscriptionTier(s), true
	}
	return "", false
}

// MissionType enumerates the kinds of tasks the catalog contains.
type MissionType string

const (
	MissionLogin    MissionType = "LOGIN"
	MissionLesson   MissionType = "LESSON"
	MissionQuiz     MissionType = "QUIZ"
	MissionNote     MissionType = "NOTE"
	MissionGame     MissionType = "GAME"
	MissionReferral MissionType = "REFERRAL"
	MissionAnalysis MissionType = "ANALYSIS"
)

// MissionPeriod enumerates the time windows a mission is scoped to.
type MissionPeriod string

const (
	PeriodDaily   MissionPeriod = "DAILY"
	PeriodWeekly  MissionPeriod = "WEEKLY"
	PeriodMonthly MissionPeriod = "MONTHLY"
	PeriodYearly  MissionPeriod = "YEARLY"
)

// Mission is a catalog-defined task with a reward. Identity is immutable;
// only the completion flags change, and IsCollected never reverts.
type Mission struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	XPReward    int           `json:"xp_reward"`
	Type        MissionType   `json:"type"`
	Period      MissionPeriod `json:"period"`
	IsCompleted bool          `json:"is_completed"`
	IsCollected bool          `json:"is_collected"`
}

// UserProfile is the root progression aggregate, one per signed-in session.
// It is owned exclusively by the profile store; everything else mutates a
// copy and hands it back.
type UserProfile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Country    string `json:"country,omitempty"`
	JoinedDate string `json:"joined_date"`

	XP             int       `json:"xp"`
	LastActiveDate string    `json:"last_active_date"`
	IsClockedIn    bool      `json:"is_clocked_in"`
	Missions       []Mission `json:"missions"`

	IsTrial      bool      `json:"is_trial"`
	TrialEndDate time.Time `json:"trial_end_date,omitzero"`

	SubscriptionTier SubscriptionTier `json:"subscription_tier,omitempty"`

	ReferralCode         string `json:"referral_code,omitempty"`
	ReferredBy           string `json:"referred_by,omitempty"`
	ReferralBonusClaimed bool   `json:"referral_bonus_claimed"`
}

// Mission returns a pointer into the profile's mission list, or nil when the
// id is unknown.
func (p *UserProfile) Mission(id string) *Mission {
	for i := range p.Missions {
		if p.Missions[i].ID == id {
			return &p.Missions[i]
		}
	}
	return nil
}

// SavedAccount is a lightweight login-method cache entry. The list is capped
// at five entries, most recent first, unique by email.
type SavedAccount struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Method    string    `json:"method"`
	LastLogin time.Time `json:"last_login"`
}
