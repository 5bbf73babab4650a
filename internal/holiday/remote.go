package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/holiday-planner/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultBaseURL     = "https://date.nager.at/api/v3"
	defaultHTTPTimeout = 10 * time.Second
)

// defaultBlockedCountries lists region codes with no reliable public
// holiday source. Selecting one fails fast without a network call.
var defaultBlockedCountries = []string{"CN"}

// RemoteSource implements Source against a public-holiday HTTP API
type RemoteSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	blocked    map[string]bool
}

// remoteHoliday is the wire shape of one API record. The service owns the
// schema; only the date string and display name are contractual.
type remoteHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Country is one entry of the supported-country list used by the
// selection control.
type Country struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
}

// NewRemoteSource creates a remote holiday source. An empty baseURL or
// nil blocked list selects the defaults.
func NewRemoteSource(baseURL string, blocked []string, logger *zap.Logger) *RemoteSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if blocked == nil {
		blocked = defaultBlockedCountries
	}

	blockedSet := make(map[string]bool, len(blocked))
	for _, cc := range blocked {
		blockedSet[strings.ToUpper(strings.TrimSpace(cc))] = true
	}

	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:  logger,
		blocked: blockedSet,
	}
}

// Name identifies the source
func (s *RemoteSource) Name() string { return "remote" }

// Holidays fetches the public holidays for country and year. Records on
// Saturday or Sunday are discarded (weekend holidays do not affect work
// scheduling); survivors are deduplicated by (date, trimmed name) with
// the first occurrence winning, and all carry TypeRegular since the
// remote service has no work-holiday notion.
func (s *RemoteSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	country = strings.ToUpper(strings.TrimSpace(country))

	if s.blocked[country] {
		s.logger.Warn("Country has no reliable holiday source, skipping fetch",
			zap.String("country", country))
		return nil, fmt.Errorf("country %s: %w", country, ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", s.baseURL, year, country)

	s.logger.Debug("Fetching public holidays",
		zap.String("url", url),
		zap.String("country", country),
		zap.Int("year", year))

	var records []remoteHoliday
	if err := s.getJSON(ctx, url, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	holidays := make([]Holiday, 0, len(records))
	for _, rec := range records {
		date, err := dateutil.ParseDate(rec.Date)
		if err != nil {
			s.logger.Warn("Skipping record with malformed date",
				zap.String("date", rec.Date),
				zap.Error(err))
			continue
		}

		if dateutil.IsWeekend(date) {
			continue
		}

		name := rec.LocalName
		if strings.TrimSpace(name) == "" {
			name = rec.Name
		}

		holidays = append(holidays, Holiday{
			Date: dateutil.FormatDate(date),
			Name: name,
			Type: TypeRegular,
		})
	}

	holidays = Normalize(holidays)

	s.logger.Info("Public holidays fetched",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("records", len(records)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// Countries returns the supported country list for the selection control
func (s *RemoteSource) Countries(ctx context.Context) ([]Country, error) {
	url := s.baseURL + "/AvailableCountries"

	var countries []Country
	if err := s.getJSON(ctx, url, &countries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.logger.Debug("Country list fetched", zap.Int("count", len(countries)))
	return countries, nil
}

func (s *RemoteSource) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
