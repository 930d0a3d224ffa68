package state

import "time"

// PatternInsight is a short observation emitted by the check-in agent with a
// severity tag (thriving/watch/intervene).
type PatternInsight struct {
	Pattern        string `json:"pattern"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// CheckInEntry is an immutable snapshot of one submission: the raw form
// inputs plus whatever the agent echoed back at that moment.
type CheckInEntry struct {
	ID                  string           `json:"id"`
	Date                time.Time        `json:"date"`
	SleepQuality        int              `json:"sleep_quality"`
	EnergyLevel         int              `json:"energy_level"`
	CaffeineIntake      int              `json:"caffeine_intake"`
	AlcoholIntake       int              `json:"alcohol_intake"`
	MedsTaken           bool             `json:"meds_taken"`
	Intimacy            bool             `json:"intimacy"`
	CreativeTime        int              `json:"creative_time"`
	PracticalTime       int              `json:"practical_time"`
	MoodNotes           string           `json:"mood_notes"`
	StreakCount         *int             `json:"streak_count,omitempty"`
	HPValue             *int             `json:"hp_value,omitempty"`
	HPMax               *int             `json:"hp_max,omitempty"`
	ShieldCount         *int             `json:"shield_count,omitempty"`
	PatternInsights     []PatternInsight `json:"pattern_insights,omitempty"`
	MotivationalMessage string           `json:"motivational_message,omitempty"`
	StatsSummary        string           `json:"stats_summary,omitempty"`
	MoodAssessment      string           `json:"mood_assessment,omitempty"`
}

// Suggestion is one coaching suggestion. Done and Skipped are terminal,
// mutually exclusive flags set by user action and never cleared.
type Suggestion struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	TimeEstimate      string `json:"time_estimate"`
	Reasoning         string `json:"reasoning"`
	Category          string `json:"category"`
	Priority          string `json:"priority"`
	TrendingRelevance string `json:"trending_relevance"`
	Done              bool   `json:"done"`
	Skipped           bool   `json:"skipped"`
}

// Role is the closed two-value tag on chat messages.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID                  string    `json:"id"`
	Role                Role      `json:"role"`
	Content             string    `json:"content"`
	Timestamp           time.Time `json:"timestamp"`
	IsIntervention      bool      `json:"is_intervention,omitempty"`
	InterventionType    string    `json:"intervention_type,omitempty"`
	InterventionMessage string    `json:"intervention_message,omitempty"`
	TopicsExplored      []string  `json:"topics_explored,omitempty"`
	ActionItems         []string  `json:"action_items,omitempty"`
	ConversationMood    string    `json:"conversation_mood,omitempty"`
}

// Achievement unlock state is monotonic: Unlocked transitions false->true
// only, and UnlockedAt is set once on that first transition.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Stats is the latest snapshot shown on the dashboard. Nil means the field
// has never been reported.
type Stats struct {
	SleepQuality   *int    `json:"sleep_quality"`
	EnergyLevel    *int    `json:"energy_level"`
	CaffeineIntake *int    `json:"caffeine_intake"`
	CreativeTime   *int    `json:"creative_time"`
	PracticalTime  *int    `json:"practical_time"`
	Mood           *string `json:"mood"`
}

// MedicationEntry is one logged dose. Duration is the elimination window in
// hours; wear-off status is derived from it at render time, never stored.
type MedicationEntry struct {
	Name      string  `json:"name"`
	Generic   string  `json:"generic"`
	DosageMg  float64 `json:"dosage_mg"`
	TimeTaken string  `json:"time_taken"` // "HH:MM"
	Duration  Window  `json:"duration"`
}

// Window is a min/max span in hours.
type Window struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TodayCheckIns tracks which day-part slots have been checked in today.
// The slots reset whenever Date no longer matches the current day; the
// reset is computed on read, not persisted eagerly.
type TodayCheckIns struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Morning   bool   `json:"morning"`
	Afternoon bool   `json:"afternoon"`
	Evening   bool   `json:"evening"`
}

// AppState is the whole persisted record. All mutation happens through
// Store.Update so there is a single logical writer.
type AppState struct {
	Streak              int               `json:"streak"`
	HP                  int               `json:"hp"`
	HPMax               int               `json:"hp_max"`
	Shields             int               `json:"shields"`
	LastCheckIn         *time.Time        `json:"last_check_in"`
	CheckInHistory      []CheckInEntry    `json:"check_in_history"` // newest first
	PatternHistory      []PatternInsight  `json:"pattern_history"`  // newest first
	Suggestions         []Suggestion      `json:"suggestions"`
	ChatMessages        []ChatMessage     `json:"chat_messages"`
	Achievements        []Achievement     `json:"achievements"`
	Stats               Stats             `json:"stats"`
	CoachingNote        string            `json:"coaching_note,omitempty"`
	EnergyAssessment    string            `json:"energy_assessment,omitempty"`
	MotivationalMessage string            `json:"motivational_message,omitempty"`
	TodayCheckIns       TodayCheckIns     `json:"today_check_ins"`
	Medications         []MedicationEntry `json:"medications"`
}

// UserMessageCount reports how many chat messages were sent by the user.
func (s *AppState) UserMessageCount() int {
	n := 0
	for _, m := range s.ChatMessages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// TodaySlots returns the check-in slots for the given day, resetting them
// when the stored date belongs to an earlier day.
func (s *AppState) TodaySlots(now time.Time) TodayCheckIns {
	day := now.Format("2006-01-02")
	if s.TodayCheckIns.Date != day {
		return TodayCheckIns{Date: day}
	}
	return s.TodayCheckIns
}
