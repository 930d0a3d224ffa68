// Package achievements holds the fixed achievement catalog and the unlock
// rule evaluator. Evaluation is pure, idempotent and monotonic: an unlocked
// achievement never re-locks, and re-running the evaluator on the same
// state is a no-op.
package achievements

import (
	"time"

	"flowstate/pkg/state"
)

// Catalog returns the fixed 10-entry achievement list, all locked.
//
// night_owl is defined here but has no rule in Evaluate; the original
// product shipped it without an unlock condition and we keep it
// unreachable rather than inventing one.
func Catalog() []state.Achievement {
	return []state.Achievement{
		{ID: "first_checkin", Title: "First Check-In", Description: "Complete your first daily check-in", Icon: "star"},
		{ID: "streak_3", Title: "3-Day Streak", Description: "Maintain a 3-day check-in streak", Icon: "fire"},
		{ID: "streak_7", Title: "7-Day Streak", Description: "Maintain a 7-day check-in streak", Icon: "fire"},
		{ID: "streak_30", Title: "30-Day Streak", Description: "Maintain a 30-day streak", Icon: "rocket"},
		{ID: "creative_hour", Title: "Creative Hour", Description: "Log 60+ minutes of creative time", Icon: "palette"},
		{ID: "night_owl", Title: "Night Owl Recovery", Description: "Log sleep quality 8+ after a low day", Icon: "moon"},
		{ID: "hp_50", Title: "Half HP", Description: "Reach 50 HP", Icon: "shield"},
		{ID: "hp_100", Title: "Full HP", Description: "Reach 100 HP", Icon: "trophy"},
		{ID: "suggestion_done", Title: "Action Taker", Description: "Complete a coaching suggestion", Icon: "check"},
		{ID: "chat_5", Title: "Deep Diver", Description: "Have 5+ messages with the Oracle", Icon: "message"},
	}
}

// Evaluate returns the achievement list with every satisfied, not-yet
// unlocked condition marked unlocked at now. Already-unlocked entries are
// returned untouched.
func Evaluate(st *state.AppState, now time.Time) []state.Achievement {
	achs := make([]state.Achievement, len(st.Achievements))
	copy(achs, st.Achievements)

	unlock := func(id string) {
		for i := range achs {
			if achs[i].ID == id && !achs[i].Unlocked {
				achs[i].Unlocked = true
				at := now
				achs[i].UnlockedAt = &at
			}
		}
	}

	if len(st.CheckInHistory) > 0 {
		unlock("first_checkin")
	}
	if st.Streak >= 3 {
		unlock("streak_3")
	}
	if st.Streak >= 7 {
		unlock("streak_7")
	}
	if st.Streak >= 30 {
		unlock("streak_30")
	}
	if st.Stats.CreativeTime != nil && *st.Stats.CreativeTime >= 60 {
		unlock("creative_hour")
	}
	if st.HP >= 50 {
		unlock("hp_50")
	}
	if st.HP >= 100 {
		unlock("hp_100")
	}
	for _, s := range st.Suggestions {
		if s.Done {
			unlock("suggestion_done")
			break
		}
	}
	if st.UserMessageCount() >= 5 {
		unlock("chat_5")
	}

	return achs
}
