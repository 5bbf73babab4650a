// Package planner owns the mutable calendar state: the canonical holiday
// set, the visible month anchor, the selected country and the display
// filter. The set is only ever replaced wholesale; derived views are
// recomputed in full on every call.
package planner

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/username/holiday-planner/internal/holiday"
	"github.com/username/holiday-planner/internal/view"
	"github.com/username/holiday-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// User-facing messages for the two remote failure kinds. They must stay
// distinguishable so the UI can tell "unsupported region" from a
// transient failure.
const (
	NoticeDataUnavailable = "No holiday data is available for this region"
	NoticeFetchFailed     = "Could not load holidays, please try again later"
)

// CountryLister is implemented by sources that can enumerate supported
// countries for the selection control.
type CountryLister interface {
	Countries(ctx context.Context) ([]holiday.Country, error)
}

// View is the render-ready rolling three-month window
type View struct {
	Months       []view.MonthView `json:"months"`
	Country      string           `json:"country"`
	Month        string           `json:"month"`
	HolidaysOnly bool             `json:"holidaysOnly"`
	Notice       string           `json:"notice,omitempty"`
}

// Planner coordinates the holiday source and the classifier
type Planner struct {
	source    holiday.Source
	work      []holiday.Holiday
	weekStart time.Weekday
	nowFunc   func() time.Time
	logger    *zap.Logger

	mu           sync.Mutex
	seq          uint64 // id of the newest refresh request; stale responses are discarded
	holidays     []holiday.Holiday
	country      string
	anchor       time.Time // first day of the visible month
	holidaysOnly bool
	notice       string
}

// New creates a planner. workHolidays are overlaid on every set
// replacement; nowFunc supplies "today" so rendering stays testable.
func New(source holiday.Source, workHolidays []holiday.Holiday, country string, weekStart time.Weekday, nowFunc func() time.Time, logger *zap.Logger) *Planner {
	if nowFunc == nil {
		nowFunc = dateutil.Today
	}

	return &Planner{
		source:    source,
		work:      workHolidays,
		weekStart: weekStart,
		nowFunc:   nowFunc,
		logger:    logger,
		country:   country,
		anchor:    dateutil.StartOfMonth(nowFunc()),
	}
}

// Start triggers the initial holiday fetch for the current selection
func (p *Planner) Start(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	seq, country, year := p.seq, p.country, p.anchor.Year()
	p.mu.Unlock()

	go p.refresh(ctx, seq, country, year)
}

// SetMonth changes the visible month anchor and refreshes the set
func (p *Planner) SetMonth(ctx context.Context, anchor time.Time) {
	p.mu.Lock()
	p.anchor = dateutil.StartOfMonth(anchor)
	p.seq++
	seq, country, year := p.seq, p.country, p.anchor.Year()
	p.mu.Unlock()

	go p.refresh(ctx, seq, country, year)
}

// SetCountry changes the active country and refreshes the set
func (p *Planner) SetCountry(ctx context.Context, country string) {
	p.mu.Lock()
	p.country = country
	p.seq++
	seq, year := p.seq, p.anchor.Year()
	p.mu.Unlock()

	go p.refresh(ctx, seq, country, year)
}

// SetHolidaysOnly toggles the "show only holidays" display filter
func (p *Planner) SetHolidaysOnly(enabled bool) {
	p.mu.Lock()
	p.holidaysOnly = enabled
	p.mu.Unlock()
}

// refresh fetches and swaps the holiday set. Strict latest-request-wins:
// the sequence is re-checked under the lock before the swap, so a slow
// stale response can never overwrite a newer selection.
func (p *Planner) refresh(ctx context.Context, seq uint64, country string, year int) {
	fetched, err := p.source.Holidays(ctx, country, year)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		p.logger.Debug("Discarding stale holiday response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", p.seq),
			zap.String("country", country),
			zap.Int("year", year))
		return
	}

	if err != nil {
		// Remote failures clear the set; stale annotations are worse
		// than none.
		p.holidays = nil
		if errors.Is(err, holiday.ErrDataUnavailable) {
			p.notice = NoticeDataUnavailable
		} else {
			p.notice = NoticeFetchFailed
		}
		p.logger.Warn("Holiday refresh failed",
			zap.String("source", p.source.Name()),
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
		return
	}

	p.holidays = p.replaceSet(fetched)
	p.notice = ""

	p.logger.Info("Holiday set replaced",
		zap.String("source", p.source.Name()),
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("holidays", len(p.holidays)))
}

// Import replaces the holiday set from an ICS document. On failure the
// previous set is left untouched; on success the set is swapped and the
// holidays-only filter is reset to its default.
func (p *Planner) Import(r io.Reader) error {
	imported, err := holiday.ImportICS(r, p.logger)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Invalidate any in-flight fetch so it cannot overwrite the import
	p.seq++

	p.holidays = p.replaceSet(imported)
	p.holidaysOnly = false
	p.notice = ""

	p.logger.Info("Holiday set replaced from import",
		zap.Int("holidays", len(p.holidays)))

	return nil
}

// replaceSet builds the next canonical set from adapter output plus the
// configured work holidays. Caller must hold the lock or own the slice.
func (p *Planner) replaceSet(fetched []holiday.Holiday) []holiday.Holiday {
	merged := make([]holiday.Holiday, 0, len(fetched)+len(p.work))
	merged = append(merged, fetched...)
	merged = append(merged, p.work...)
	return holiday.Normalize(merged)
}

// View classifies the rolling window: previous, visible and next month
func (p *Planner) View() (View, error) {
	p.mu.Lock()
	set := p.holidays
	anchor := p.anchor
	country := p.country
	holidaysOnly := p.holidaysOnly
	notice := p.notice
	p.mu.Unlock()

	classifier := view.Classifier{
		Now:          p.nowFunc(),
		WeekStart:    p.weekStart,
		HolidaysOnly: holidaysOnly,
	}

	result := View{
		Country:      country,
		Month:        anchor.Format("2006-01"),
		HolidaysOnly: holidaysOnly,
		Notice:       notice,
	}

	for offset := -1; offset <= 1; offset++ {
		mv, err := classifier.Month(anchor.AddDate(0, offset, 0), set)
		if err != nil {
			return View{}, err
		}
		result.Months = append(result.Months, mv)
	}

	return result, nil
}

// Holidays returns a copy of the current canonical set
func (p *Planner) Holidays() []holiday.Holiday {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]holiday.Holiday, len(p.holidays))
	copy(out, p.holidays)
	return out
}

// Countries lists the supported countries when the source can enumerate
// them; sources without a country notion return an empty list.
func (p *Planner) Countries(ctx context.Context) ([]holiday.Country, error) {
	lister, ok := p.source.(CountryLister)
	if !ok {
		return nil, nil
	}
	return lister.Countries(ctx)
}
