// Package view derives the render-ready calendar model: the month grid
// split into weeks, per-week highlight classification and per-day badge
// and background decisions over a canonical holiday set.
package view

import (
	"time"

	"github.com/username/holiday-planner/internal/holiday"
	"github.com/username/holiday-planner/pkg/dateutil"
)

// WeekHighlight is the week-level highlight class
type WeekHighlight string

const (
	HighlightNone           WeekHighlight = "none"
	HighlightRegularOutline WeekHighlight = "regular-outline"
	HighlightWorkOutline    WeekHighlight = "work-outline"
	HighlightWorkFilled     WeekHighlight = "work-filled"
	HighlightOverride       WeekHighlight = "override"
)

// Badge is the per-day holiday badge icon; at most one per day
type Badge string

const (
	BadgeNone    Badge = ""
	BadgeWork    Badge = "work"
	BadgeRegular Badge = "regular"
)

// Background is the per-day background class
type Background string

const (
	BackgroundNone    Background = ""
	BackgroundToday   Background = "today"
	BackgroundWork    Background = "work"
	BackgroundRegular Background = "regular"
)

// DayCell is one rendered grid day. Cells are recomputed on every view
// pass and carry no identity across renders.
type DayCell struct {
	Date       string            `json:"date"`
	InMonth    bool              `json:"inMonth"`
	IsToday    bool              `json:"isToday"`
	Holidays   []holiday.Holiday `json:"holidays,omitempty"`
	Badge      Badge             `json:"badge,omitempty"`
	Background Background        `json:"background,omitempty"`
	Hidden     bool              `json:"hidden,omitempty"`
}

// WeekRow is one rendered week of exactly 7 cells. WorkDays and
// RegularDays are distinct-day counts over days belonging to the
// rendered month, never raw record counts.
type WeekRow struct {
	Days        []DayCell     `json:"days"`
	WorkDays    int           `json:"workDays"`
	RegularDays int           `json:"regularDays"`
	Override    bool          `json:"override"`
	Highlight   WeekHighlight `json:"highlight"`
}

// MonthView is the classified grid for one rendered month
type MonthView struct {
	Month string    `json:"month"`
	Weeks []WeekRow `json:"weeks"`
}

// Classifier computes month views. Now and WeekStart are threaded in
// explicitly so classification stays deterministic and testable.
type Classifier struct {
	Now          time.Time
	WeekStart    time.Weekday
	HolidaysOnly bool
}

// Month classifies the grid of anchor's month against the canonical set
func (c Classifier) Month(anchor time.Time, set []holiday.Holiday) (MonthView, error) {
	days := dateutil.MonthGrid(anchor, c.WeekStart)
	weeks, err := dateutil.SplitWeeks(days)
	if err != nil {
		return MonthView{}, err
	}

	mv := MonthView{
		Month: anchor.Format("2006-01"),
		Weeks: make([]WeekRow, 0, len(weeks)),
	}
	for _, week := range weeks {
		mv.Weeks = append(mv.Weeks, c.classifyWeek(anchor, week, set))
	}
	return mv, nil
}

func (c Classifier) classifyWeek(anchor time.Time, week []time.Time, set []holiday.Holiday) WeekRow {
	row := WeekRow{Days: make([]DayCell, 0, len(week))}

	for _, day := range week {
		cell := DayCell{
			Date:     dateutil.FormatDate(day),
			InMonth:  day.Month() == anchor.Month() && day.Year() == anchor.Year(),
			IsToday:  dateutil.IsSameDay(day, c.Now),
			Holidays: holiday.OnDate(set, dateutil.FormatDate(day)),
		}

		// Days spilling in from adjacent months never contribute to this
		// month's week counts; the same physical week is counted by the
		// month each day belongs to.
		if cell.InMonth {
			work, regular := false, false
			for _, h := range cell.Holidays {
				switch h.Type {
				case holiday.TypeWork:
					work = true
				case holiday.TypeRegular:
					regular = true
				}
			}
			if work {
				row.WorkDays++
			}
			if regular {
				row.RegularDays++
			}
		}

		row.Days = append(row.Days, cell)
	}

	// Week-level decision in strict priority order, first match wins
	switch {
	case row.RegularDays >= 2:
		row.Override = true
		row.Highlight = HighlightOverride
	case row.WorkDays > 1:
		row.Highlight = HighlightWorkFilled
	case row.WorkDays == 1:
		row.Highlight = HighlightWorkOutline
	case row.RegularDays == 1:
		row.Highlight = HighlightRegularOutline
	default:
		row.Highlight = HighlightNone
	}

	for i := range row.Days {
		cell := &row.Days[i]
		cell.Badge = badgeFor(cell.Holidays)
		if !row.Override {
			cell.Background = c.backgroundFor(cell)
		}
		// Display-level omission only; counts above are final
		if c.HolidaysOnly && len(cell.Holidays) == 0 {
			cell.Hidden = true
		}
	}

	return row
}

// backgroundFor picks the cell background when the week is not in
// override mode: today beats holiday coloring, work beats regular.
// Days spilling in from adjacent months stay muted and never get a
// background, matching how they are excluded from the week counts.
func (c Classifier) backgroundFor(cell *DayCell) Background {
	if !cell.InMonth {
		return BackgroundNone
	}
	if cell.IsToday {
		return BackgroundToday
	}
	for _, h := range cell.Holidays {
		if h.Type == holiday.TypeWork {
			return BackgroundWork
		}
	}
	if len(cell.Holidays) > 0 {
		return BackgroundRegular
	}
	return BackgroundNone
}

// badgeFor picks the single badge icon, work over regular
func badgeFor(holidays []holiday.Holiday) Badge {
	badge := BadgeNone
	for _, h := range holidays {
		if h.Type == holiday.TypeWork {
			return BadgeWork
		}
		badge = BadgeRegular
	}
	return badge
}
