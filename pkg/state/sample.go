package state

import "time"

func intp(v int) *int              { return &v }
func strp(v string) *string        { return &v }
func timep(t time.Time) *time.Time { return &t }

// SampleState is the fixed read-only demo dataset. It is rendered in place
// of the persisted record while sample mode is on and is never merged with
// or written over the real state.
func SampleState(catalog []Achievement, now time.Time) *AppState {
	achs := make([]Achievement, len(catalog))
	copy(achs, catalog)
	unlock := func(id string, at time.Time) {
		for i := range achs {
			if achs[i].ID == id {
				achs[i].Unlocked = true
				achs[i].UnlockedAt = timep(at)
			}
		}
	}
	unlock("first_checkin", now.Add(-5*24*time.Hour))
	unlock("streak_3", now.Add(-2*24*time.Hour))
	unlock("creative_hour", now.Add(-2*24*time.Hour))
	unlock("hp_50", now.Add(-24*time.Hour))

	return &AppState{
		Streak:      5,
		HP:          72,
		HPMax:       100,
		Shields:     2,
		LastCheckIn: timep(now),
		CheckInHistory: []CheckInEntry{
			{
				ID: "s1", Date: now.Add(-24 * time.Hour), SleepQuality: 7, EnergyLevel: 6,
				CaffeineIntake: 2, AlcoholIntake: 0, MedsTaken: true, Intimacy: false,
				CreativeTime: 45, PracticalTime: 90, MoodNotes: "Good day, felt productive",
				StreakCount: intp(4), HPValue: intp(65), HPMax: intp(100), ShieldCount: intp(1),
				MotivationalMessage: "4-day streak! You are building real momentum.",
				StatsSummary:        "Sleep: 7/10, Energy: 6/10, Creative: 45min",
				MoodAssessment:      "Productive and focused",
				PatternInsights: []PatternInsight{
					{Pattern: "Energy peaks around 10am after coffee", Severity: "thriving", Recommendation: "Schedule creative work for late morning"},
				},
			},
			{
				ID: "s2", Date: now.Add(-48 * time.Hour), SleepQuality: 8, EnergyLevel: 7,
				CaffeineIntake: 1, AlcoholIntake: 1, MedsTaken: true, Intimacy: true,
				CreativeTime: 60, PracticalTime: 30, MoodNotes: "Relaxed and creative",
				StreakCount: intp(3), HPValue: intp(58), HPMax: intp(100), ShieldCount: intp(1),
				MotivationalMessage: "Keep building that streak!",
				StatsSummary:        "Sleep: 8/10, Energy: 7/10, Creative: 60min",
				MoodAssessment:      "Relaxed and happy",
				PatternInsights: []PatternInsight{
					{Pattern: "Better sleep on low-caffeine days", Severity: "thriving", Recommendation: "Keep caffeine to 1-2 cups"},
				},
			},
		},
		PatternHistory: []PatternInsight{
			{Pattern: "Energy drops after 2+ coffees past 3pm", Severity: "watch", Recommendation: "Try switching to decaf after 2pm"},
			{Pattern: "Creative output peaks on days with 7+ sleep", Severity: "thriving", Recommendation: "Protect your sleep for creative days"},
			{Pattern: "Mood dips after 3 days without creative time", Severity: "intervene", Recommendation: "Schedule at least 15 min of creative time daily"},
		},
		Suggestions: []Suggestion{
			{Title: "Quick bass practice session", Description: "You have moderate energy - perfect for a 15-minute focused practice.", TimeEstimate: "15 min", Reasoning: "Short creative wins boost mood on moderate days.", Category: "creative_win", Priority: "high", TrendingRelevance: "Music content trending +30%"},
			{Title: "Review weekly budget", Description: "Low-energy practical task to clear mental load.", TimeEstimate: "10 min", Reasoning: "Practical tasks reduce anxiety.", Category: "practical_reminder", Priority: "medium", TrendingRelevance: "N/A"},
			{Title: "Take a 20-minute nap", Description: "Your energy has been below 6 for 2 days. A power nap can reset.", TimeEstimate: "20 min", Reasoning: "Rest permission based on energy patterns.", Category: "rest_permission", Priority: "high", TrendingRelevance: "N/A"},
		},
		ChatMessages: []ChatMessage{
			{ID: "c1", Role: RoleUser, Content: "Should I start a Patreon for my music?", Timestamp: now.Add(-time.Hour)},
			{
				ID: "c2", Role: RoleAssistant,
				Content:          "Starting a Patreon is a solid move for musicians with an engaged audience. Start with 2 tiers - a $5 \"behind the scenes\" tier and a $15 \"exclusive content\" tier. Don't overcomplicate it.",
				Timestamp:        now.Add(-58 * time.Minute),
				InterventionType: "none",
				TopicsExplored:   []string{"monetization", "Patreon", "music business"},
				ActionItems:      []string{"Set up Patreon account with 2 tiers this week", "Post announcement to existing audience"},
				ConversationMood: "curious and motivated",
			},
		},
		Achievements: achs,
		Stats: Stats{
			SleepQuality:   intp(7),
			EnergyLevel:    intp(6),
			CaffeineIntake: intp(2),
			CreativeTime:   intp(45),
			PracticalTime:  intp(90),
			Mood:           strp("Productive and focused"),
		},
		CoachingNote:        "You have been productive this week. One quick creative win today keeps the momentum going.",
		EnergyAssessment:    "Moderate energy - good for quick creative tasks, avoid deep work",
		MotivationalMessage: "5-day streak! You are building real momentum. Keep showing up.",
		Medications: []MedicationEntry{
			{Name: "Vyvanse", Generic: "lisdexamfetamine", DosageMg: 40, TimeTaken: "08:00", Duration: Window{Min: 10, Max: 14}},
		},
	}
}
