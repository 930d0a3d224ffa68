// Package rotation deterministically rotates display lists once per
// calendar day. Selection is plain day-of-year modulo: it is stable within
// a day and a process, and intentionally makes no promises across timezone
// changes or leap-year boundaries.
package rotation

import "time"

// Pick returns list[(dayOfYear(now)+offset) mod len(list)], or "" for an
// empty list.
func Pick(list []string, now time.Time, offset int) string {
	if len(list) == 0 {
		return ""
	}
	idx := (now.YearDay() + offset) % len(list)
	if idx < 0 {
		idx += len(list)
	}
	return list[idx]
}

// wordOffset decorrelates the word-of-the-day sequence from the mantra
// sequence.
const wordOffset = 7

// MantraOfTheDay rotates through the mantra list at offset 0.
func MantraOfTheDay(now time.Time) string {
	return Pick(Mantras, now, 0)
}

// WordOfTheDay rotates through the vocabulary list at offset +7.
func WordOfTheDay(now time.Time) string {
	return Pick(Words, now, wordOffset)
}

var Mantras = []string{
	"Show up before you feel ready.",
	"Small wins compound.",
	"Rest is part of the work.",
	"Progress over perfection.",
	"One honest check-in beats three perfect plans.",
	"Energy follows attention.",
	"You are allowed to start small.",
	"Consistency is a kindness to your future self.",
	"Momentum loves company.",
	"Notice the pattern, then nudge it.",
	"Today counts double when it was hard.",
	"Protect the streak, forgive the slip.",
	"Creative minutes are never wasted.",
	"Your baseline is not your ceiling.",
}

var Words = []string{
	"equanimity -- mental calmness under strain",
	"lacuna -- an unfilled space or gap",
	"sisu -- stoic determination in the face of adversity",
	"meliorism -- belief that effort improves the world",
	"halcyon -- calm, peaceful, golden",
	"eustress -- stress that energizes rather than drains",
	"akrasia -- acting against one's better judgment",
	"kaizen -- continuous small improvement",
	"sonder -- the realization that every passerby has a vivid life",
	"apricity -- the warmth of the sun in winter",
	"ataraxia -- serene freedom from worry",
	"flow -- full absorption in the task at hand",
	"hygge -- cozy contentment in the everyday",
	"metanoia -- a transformative change of heart",
}
