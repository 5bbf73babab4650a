package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/username/holiday-planner/internal/holiday"
	"github.com/username/holiday-planner/internal/planner"
	"go.uber.org/zap"
)

type fakeSource struct {
	holidays []holiday.Holiday
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Holidays(_ context.Context, _ string, _ int) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func newTestServer(t *testing.T, src holiday.Source) (*httptest.Server, *planner.Planner) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	now := func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	p := planner.New(src, nil, "US", time.Sunday, now, logger)

	ts := httptest.NewServer(New(p, logger).Router())
	t.Cleanup(ts.Close)
	return ts, p
}

func TestHandleView(t *testing.T) {
	ts, _ := newTestServer(t, &fakeSource{})

	resp, err := http.Get(ts.URL + "/api/view")
	if err != nil {
		t.Fatalf("GET /api/view: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var v planner.View
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(v.Months) != 3 {
		t.Errorf("view has %d months, want 3", len(v.Months))
	}
	if v.Month != "2025-06" {
		t.Errorf("anchor month = %s, want 2025-06", v.Month)
	}
}

func TestHandleSetMonth(t *testing.T) {
	ts, p := newTestServer(t, &fakeSource{})

	resp, err := http.Post(ts.URL+"/api/month", "application/json",
		strings.NewReader(`{"month":"2025-09"}`))
	if err != nil {
		t.Fatalf("POST /api/month: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := p.View(); v.Month == "2025-09" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	v, err := p.View()
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if v.Month != "2025-09" {
		t.Errorf("anchor month = %s, want 2025-09", v.Month)
	}

	resp, err = http.Post(ts.URL+"/api/month", "application/json",
		strings.NewReader(`{"month":"September"}`))
	if err != nil {
		t.Fatalf("POST /api/month: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed month status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSetCountry(t *testing.T) {
	ts, _ := newTestServer(t, &fakeSource{})

	resp, err := http.Post(ts.URL+"/api/country", "application/json",
		strings.NewReader(`{"country":""}`))
	if err != nil {
		t.Fatalf("POST /api/country: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty country status = %d, want 400", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/country", "application/json",
		strings.NewReader(`{"country":"DE"}`))
	if err != nil {
		t.Fatalf("POST /api/country: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandleSetFilter(t *testing.T) {
	ts, p := newTestServer(t, &fakeSource{})

	resp, err := http.Post(ts.URL+"/api/filter", "application/json",
		strings.NewReader(`{"enabled":true}`))
	if err != nil {
		t.Fatalf("POST /api/filter: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	v, err := p.View()
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if !v.HolidaysOnly {
		t.Error("filter not enabled after POST /api/filter")
	}
}

func TestHandleImport(t *testing.T) {
	ts, p := newTestServer(t, &fakeSource{})

	resp, err := http.Post(ts.URL+"/api/import", "text/calendar",
		strings.NewReader("not a calendar"))
	if err != nil {
		t.Fatalf("POST /api/import: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("malformed import status = %d, want 422", resp.StatusCode)
	}

	ics := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Test//T//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:1@t\r\nDTSTART;VALUE=DATE:20250610\r\nSUMMARY:Company Day\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	resp, err = http.Post(ts.URL+"/api/import", "text/calendar", strings.NewReader(ics))
	if err != nil {
		t.Fatalf("POST /api/import: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d, want 200", resp.StatusCode)
	}

	set := p.Holidays()
	if len(set) != 1 || set[0].Name != "Company Day" {
		t.Errorf("imported set = %v, want single Company Day record", set)
	}
}

func TestHandleExport(t *testing.T) {
	ts, p := newTestServer(t, &fakeSource{})

	// Two holidays on the same date are distinct records and must export
	// as distinct events
	ics := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Test//T//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:1@t\r\nDTSTART;VALUE=DATE:20250610\r\nSUMMARY:Company Day\r\nEND:VEVENT\r\n" +
		"BEGIN:VEVENT\r\nUID:2@t\r\nDTSTART;VALUE=DATE:20250610\r\nSUMMARY:Town Fair\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	if err := p.Import(strings.NewReader(ics)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/export.ics")
	if err != nil {
		t.Fatalf("GET /api/export.ics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "SUMMARY:Company Day") {
		t.Errorf("export missing event data:\n%s", out)
	}
	if !strings.Contains(out, "SUMMARY:Town Fair") {
		t.Errorf("export missing second same-date event:\n%s", out)
	}
	if !strings.Contains(out, "METHOD:PUBLISH") {
		t.Errorf("export missing METHOD:PUBLISH:\n%s", out)
	}

	// Every emitted UID must be unique
	seen := map[string]bool{}
	for _, line := range strings.Split(out, "\r\n") {
		if !strings.HasPrefix(line, "UID:") {
			continue
		}
		if seen[line] {
			t.Errorf("duplicate %s in export", line)
		}
		seen[line] = true
	}
	if len(seen) != 2 {
		t.Errorf("export emitted %d distinct UIDs, want 2", len(seen))
	}
}

func TestHandleCountriesWithoutLister(t *testing.T) {
	// Sources without country enumeration yield an empty list, not an error
	ts, _ := newTestServer(t, &fakeSource{})

	resp, err := http.Get(ts.URL + "/api/countries")
	if err != nil {
		t.Fatalf("GET /api/countries: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var countries []holiday.Country
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		t.Fatalf("decode countries: %v", err)
	}
	if len(countries) != 0 {
		t.Errorf("countries = %v, want empty", countries)
	}
}

func TestHandleHealth(t *testing.T) {
	ts, _ := newTestServer(t, &fakeSource{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
