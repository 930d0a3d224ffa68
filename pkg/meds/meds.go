// Package meds derives medication wear-off status from a fixed
// elimination-window duration per medication. Status is a pure function of
// wall-clock time and is recomputed on every render, never cached.
package meds

import (
	"fmt"
	"time"

	"flowstate/pkg/state"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusWearingOff Status = "wearing_off"
	StatusWornOff    Status = "worn_off"
)

// CatalogEntry is a named medication with its generic name and typical
// elimination window in hours.
type CatalogEntry struct {
	Name     string
	Generic  string
	Duration state.Window
}

// Catalog is the fixed pick-list offered by the check-in wizard. Custom
// free-text entries are allowed alongside it.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{Name: "Vyvanse", Generic: "lisdexamfetamine", Duration: state.Window{Min: 10, Max: 14}},
		{Name: "Adderall XR", Generic: "mixed amphetamine salts ER", Duration: state.Window{Min: 8, Max: 12}},
		{Name: "Adderall IR", Generic: "mixed amphetamine salts", Duration: state.Window{Min: 4, Max: 6}},
		{Name: "Ritalin", Generic: "methylphenidate", Duration: state.Window{Min: 3, Max: 5}},
		{Name: "Concerta", Generic: "methylphenidate ER", Duration: state.Window{Min: 10, Max: 12}},
		{Name: "Strattera", Generic: "atomoxetine", Duration: state.Window{Min: 20, Max: 24}},
	}
}

// Lookup finds a catalog entry by name, case-sensitively.
func Lookup(name string) (CatalogEntry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Report pairs a logged dose with its derived status.
type Report struct {
	Medication  state.MedicationEntry
	Status      Status
	WindowLabel string // e.g. "wears off 18:00-22:00"
}

// ComputeStatus derives the wear-off report for each logged dose at now.
// TimeTaken is combined with now's date; a dose logged "08:00" with window
// {10,14} starts wearing off at 18:00 and is worn off by 22:00.
// Unparseable times yield worn_off with an empty window label.
func ComputeStatus(medications []state.MedicationEntry, now time.Time) []Report {
	reports := make([]Report, 0, len(medications))
	for _, med := range medications {
		reports = append(reports, computeOne(med, now))
	}
	return reports
}

func computeOne(med state.MedicationEntry, now time.Time) Report {
	taken, err := time.ParseInLocation("15:04", med.TimeTaken, now.Location())
	if err != nil {
		return Report{Medication: med, Status: StatusWornOff}
	}

	takenAt := time.Date(now.Year(), now.Month(), now.Day(),
		taken.Hour(), taken.Minute(), 0, 0, now.Location())
	earliest := takenAt.Add(time.Duration(med.Duration.Min * float64(time.Hour)))
	latest := takenAt.Add(time.Duration(med.Duration.Max * float64(time.Hour)))

	status := StatusActive
	switch {
	case !now.Before(latest):
		status = StatusWornOff
	case !now.Before(earliest):
		status = StatusWearingOff
	}

	return Report{
		Medication:  med,
		Status:      status,
		WindowLabel: fmt.Sprintf("wears off %s-%s", earliest.Format("15:04"), latest.Format("15:04")),
	}
}
