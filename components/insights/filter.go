package insights

import (
	"strings"
	"time"
)

// DatePreset names a relative date-range shortcut.
type DatePreset string

const (
	PresetAll    DatePreset = "all"
	PresetToday  DatePreset = "today"
	Preset7Days  DatePreset = "7days"
	Preset15Days DatePreset = "15days"
	Preset30Days DatePreset = "30days"
	PresetCustom DatePreset = "custom"
)

// Valid reports whether the preset is one of the known values.
func (p DatePreset) Valid() bool {
	switch p {
	case PresetAll, PresetToday, Preset7Days, Preset15Days, Preset30Days, PresetCustom:
		return true
	}
	return false
}

func (p DatePreset) lookbackDays() int {
	switch p {
	case Preset7Days:
		return 7
	case Preset15Days:
		return 15
	case Preset30Days:
		return 30
	}
	return 0
}

// FilterState is the complete user-adjustable filter configuration. A header
// with an empty or absent selected-value set imposes no constraint.
type FilterState struct {
	Preset      DatePreset                     `json:"preset"`
	CustomStart *time.Time                     `json:"custom_start,omitempty"`
	CustomEnd   *time.Time                     `json:"custom_end,omitempty"`
	Selected    map[string]map[string]struct{} `json:"-"`
	Search      string                         `json:"search"`
}

// NewFilterState returns the default state: no date constraint, no selected
// values, empty search.
func NewFilterState() FilterState {
	return FilterState{
		Preset:   PresetAll,
		Selected: map[string]map[string]struct{}{},
	}
}

// Clone deep-copies the state so snapshots stay stable after later edits.
func (s FilterState) Clone() FilterState {
	out := s
	out.Selected = make(map[string]map[string]struct{}, len(s.Selected))
	for header, values := range s.Selected {
		set := make(map[string]struct{}, len(values))
		for v := range values {
			set[v] = struct{}{}
		}
		out.Selected[header] = set
	}
	if s.CustomStart != nil {
		start := *s.CustomStart
		out.CustomStart = &start
	}
	if s.CustomEnd != nil {
		end := *s.CustomEnd
		out.CustomEnd = &end
	}
	return out
}

// Toggle adds the value to the header's selected set, or removes it if
// already present. Empty sets are dropped so they impose no constraint.
func (s *FilterState) Toggle(header, value string) {
	if s.Selected == nil {
		s.Selected = map[string]map[string]struct{}{}
	}
	set, ok := s.Selected[header]
	if !ok {
		set = map[string]struct{}{}
		s.Selected[header] = set
	}
	if _, exists := set[value]; exists {
		delete(set, value)
		if len(set) == 0 {
			delete(s.Selected, header)
		}
		return
	}
	set[value] = struct{}{}
}

// Include evaluates the row against the filter state: date predicate,
// categorical predicate, and free-text predicate must all pass.
func Include(ds *Dataset, row Row, state FilterState, now time.Time) bool {
	return includeByDate(ds, row, state, now) &&
		includeByCategories(row, state) &&
		includeBySearch(ds, row, state.Search)
}

// Apply returns the subset of dataset rows passing the filter state, in row
// order. Re-applying the same state yields an identical result.
func Apply(ds *Dataset, state FilterState, now time.Time) []Row {
	if ds == nil {
		return nil
	}
	out := make([]Row, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if Include(ds, row, state, now) {
			out = append(out, row)
		}
	}
	return out
}

func includeByDate(ds *Dataset, row Row, state FilterState, now time.Time) bool {
	if state.Preset == PresetAll || state.Preset == "" {
		return true
	}
	dateHeader := ds.Roles().Date
	if dateHeader == "" {
		return true
	}
	rowDate, ok := ParseSaleDate(row.Cells[dateHeader])
	if !ok {
		// A non-"all" preset excludes rows without a usable date.
		return false
	}
	switch state.Preset {
	case PresetToday:
		return sameDay(rowDate, now)
	case Preset7Days, Preset15Days, Preset30Days:
		// The reference point is end-of-current-day minus N days, while
		// "today" compares against the current day itself. The asymmetry is
		// contractual; it decides rows exactly N days old.
		ref := endOfDay(now).AddDate(0, 0, -state.Preset.lookbackDays())
		return !rowDate.Before(ref)
	case PresetCustom:
		if state.CustomStart == nil || state.CustomEnd == nil {
			return true
		}
		start := dayOf(*state.CustomStart)
		end := endOfDay(*state.CustomEnd)
		return !rowDate.Before(start) && !rowDate.After(end)
	}
	return true
}

func includeByCategories(row Row, state FilterState) bool {
	for header, values := range state.Selected {
		if len(values) == 0 {
			continue
		}
		if _, ok := values[cellString(row.Cells[header])]; !ok {
			return false
		}
	}
	return true
}

func includeBySearch(ds *Dataset, row Row, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, header := range ds.Headers {
		if strings.Contains(strings.ToLower(cellString(row.Cells[header])), needle) {
			return true
		}
	}
	return false
}
