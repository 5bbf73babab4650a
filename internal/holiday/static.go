package holiday

import (
	"context"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/username/holiday-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// federalHolidays are the computed definitions backing the static source
var federalHolidays = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// StaticSource implements Source without network access: US federal
// holidays are computed locally and configured company work holidays are
// merged in. It fills the role of an offline fallback the same way the
// file calendar backs the remote one.
type StaticSource struct {
	workHolidays []Holiday
	logger       *zap.Logger
}

// NewStaticSource creates a static source with the given company work
// holidays (already in canonical shape, Type forced to TypeWork).
func NewStaticSource(workHolidays []Holiday, logger *zap.Logger) *StaticSource {
	return &StaticSource{
		workHolidays: workHolidays,
		logger:       logger,
	}
}

// Name identifies the source
func (s *StaticSource) Name() string { return "static" }

// Holidays computes the holiday set for the given year. The country code
// is ignored; the static tables cover US federal holidays only. Weekend
// holidays use their observed weekday date, matching how the computed
// calendar shifts them.
func (s *StaticSource) Holidays(_ context.Context, _ string, year int) ([]Holiday, error) {
	holidays := make([]Holiday, 0, len(federalHolidays)+len(s.workHolidays))

	for _, def := range federalHolidays {
		_, observed := def.Calc(year)
		if observed.IsZero() {
			continue
		}

		holidays = append(holidays, Holiday{
			Date: dateutil.FormatDate(observed),
			Name: def.Name,
			Type: TypeRegular,
		})
	}

	for _, wh := range s.workHolidays {
		holidays = append(holidays, Holiday{
			Date: wh.Date,
			Name: wh.Name,
			Type: TypeWork,
		})
	}

	holidays = Normalize(holidays)

	s.logger.Debug("Static holidays computed",
		zap.Int("year", year),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}
