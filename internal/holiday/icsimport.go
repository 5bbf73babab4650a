package holiday

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// ImportICS parses a calendar-interchange (ICS) document and returns one
// canonical Holiday per top-level event component. The format carries no
// work/regular distinction, so every record is TypeRegular; events
// without a SUMMARY get the DefaultName placeholder. Malformed input
// wraps ErrImportFailed.
func ImportICS(r io.Reader, logger *zap.Logger) ([]Holiday, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}

	events := cal.Events()
	holidays := make([]Holiday, 0, len(events))

	for _, event := range events {
		date, err := eventDate(event)
		if err != nil {
			logger.Warn("Skipping event without usable start date",
				zap.Error(err))
			continue
		}

		name := ""
		if prop := event.GetProperty(ics.ComponentPropertySummary); prop != nil {
			name = prop.Value
		}

		holidays = append(holidays, Holiday{
			Date: date,
			Name: name,
			Type: TypeRegular,
		})
	}

	holidays = Normalize(holidays)

	logger.Info("Calendar file imported",
		zap.Int("events", len(events)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// eventDate extracts the calendar date of an event's DTSTART. Both
// all-day (VALUE=DATE) and date-time forms share the yyyyMMdd prefix.
func eventDate(event *ics.VEvent) (string, error) {
	prop := event.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil || len(prop.Value) < 8 {
		return "", fmt.Errorf("event has no DTSTART")
	}

	date, err := time.Parse("20060102", prop.Value[:8])
	if err != nil {
		return "", fmt.Errorf("unparseable DTSTART %q: %w", prop.Value, err)
	}

	return date.Format("2006-01-02"), nil
}
