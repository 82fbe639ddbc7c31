package progress

import "codequest/internal/domain"

// catalog is the fixed mission set. IDs are stable; the client keys its
// mission UI off them.
var catalog = []domain.Mission{
	{ID: "m_d1", Title: "Daily check-in", XPReward: 10, Type: domain.MissionLogin, Period: domain.PeriodDaily},
	{ID: "m_d2", Title: "Complete one lesson", XPReward: 50, Type: domain.MissionLesson, Period: domain.PeriodDaily},
	{ID: "m_d3", Title: "Pass one quiz", XPReward: 30, Type: domain.MissionQuiz, Period: domain.PeriodDaily},
	{ID: "m_d4", Title: "Write one note", XPReward: 20, Type: domain.MissionNote, Period: domain.PeriodDaily},
	{ID: "m_w1", Title: "Complete three lessons", XPReward: 150, Type: domain.MissionLesson, Period: domain.PeriodWeekly},
	{ID: "m_w2", Title: "Score a perfect arcade round", XPReward: 200, Type: domain.MissionGame, Period: domain.PeriodWeekly},
	{ID: "m_w3", Title: "Invite a friend who reaches 1000 XP", XPReward: 250, Type: domain.MissionReferral, Period: domain.PeriodWeekly},
	{ID: "m_w4", Title: "Run five code analyses", XPReward: 180, Type: domain.MissionAnalysis, Period: domain.PeriodWeekly},
	{ID: "m_m1", Title: "Master a full module", XPReward: 500, Type: domain.MissionLesson, Period: domain.PeriodMonthly},
	{ID: "m_m2", Title: "Bank 1000 lifetime XP", XPReward: 300, Type: domain.MissionQuiz, Period: domain.PeriodMonthly},
	{ID: "m_y1", Title: "Reach the top rank", XPReward: 1000, Type: domain.MissionGame, Period: domain.PeriodYearly},
	{ID: "m_y2", Title: "Keep a 365-day login streak", XPReward: 2000, Type: domain.MissionLogin, Period: domain.PeriodYearly},
}

// MissionCatalog returns a fresh copy of the canonical mission set, every
// entry uncompleted and uncollected. Deterministic: two calls return
// structurally identical lists.
func MissionCatalog() []domain.Mission {
	missions := make([]domain.Mission, len(catalog))
	copy(missions, catalog)
	return missions
}
