package server

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/store"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	sitesDir := filepath.Join(root, "sites")
	if err := os.MkdirAll(filepath.Join(sitesDir, "maintainer"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sitesDir, "maintainer", "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := store.Open(filepath.Join(root, "journal.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	kv := kvstore.Open(filepath.Join(root, "data"))
	s := New(Config{SitesDir: sitesDir, EventsBuffer: 10}, kv, journal.New(db))
	return s, sitesDir
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, kvstore.Open(t.TempDir()), nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPublishConcurrentKeepsIDOrder(t *testing.T) {
	s := New(Config{EventsBuffer: 500}, kvstore.Open(t.TempDir()), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.publish(EventStoreChange, "k", nil)
			}
		}()
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 400 {
		t.Fatalf("events len = %d, want 400", len(s.events))
	}
	for i, ev := range s.events {
		if ev.ID != int64(i+1) {
			t.Fatalf("events[%d].ID = %d, want %d", i, ev.ID, i+1)
		}
	}
}

func TestStorageDefaultsAndWrites(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/storage?key=savingsProgress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
	var p model.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding progress: %v", err)
	}
	if p.IsSet || p.DailyRate != 0.05 {
		t.Fatalf("default progress = %+v", p)
	}

	rec = do(t, h, http.MethodPost, "/api/storage?key=savingsProgress", `{"amount":150,"day":3,"isSet":true,"dailyRate":0.05}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("POST = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/storage?key=savingsProgress&path=$.amount", "")
	if strings.TrimSpace(rec.Body.String()) != "150" {
		t.Fatalf("path query = %q, want 150", rec.Body.String())
	}

	s.mu.RLock()
	n := len(s.events)
	s.mu.RUnlock()
	if n != 1 {
		t.Fatalf("events after write = %d, want 1", n)
	}
}

func TestStorageErrors(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()

	tests := []struct {
		method, target, body string
		code                 int
	}{
		{http.MethodGet, "/api/storage?key=nope", "", http.StatusBadRequest},
		{http.MethodGet, "/api/storage", "", http.StatusBadRequest},
		{http.MethodPost, "/api/storage?key=calcHistory", "{broken", http.StatusBadRequest},
		{http.MethodPut, "/api/storage?key=calcHistory", "[]", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := do(t, h, tt.method, tt.target, tt.body)
		if rec.Code != tt.code {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.target, rec.Code, tt.code)
		}
	}

	rec := do(t, h, http.MethodDelete, "/api/storage?key=themeVars", "")
	if got := rec.Header().Get("Allow"); got != "GET, POST" {
		t.Fatalf("Allow = %q, want %q", got, "GET, POST")
	}
}

func TestSitesListing(t *testing.T) {
	s, _ := newTestService(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/sites", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var listing struct {
		Success  bool `json:"success"`
		Count    int  `json:"count"`
		Websites []struct {
			Name string `json:"name"`
		} `json:"websites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decoding listing: %v", err)
	}
	if !listing.Success || listing.Count != 1 || listing.Websites[0].Name != "maintainer" {
		t.Fatalf("listing = %+v", listing)
	}
}

func TestRescanPublishesChanges(t *testing.T) {
	s, sitesDir := newTestService(t)
	s.scanOnce()

	if err := os.MkdirAll(filepath.Join(sitesDir, "journal"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sitesDir, "journal", "index.html"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s.scanOnce()
	s.scanOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 1 || s.events[0].Type != EventSitesChanged {
		t.Fatalf("events = %+v, want one %s", s.events, EventSitesChanged)
	}
	if len(s.sites) != 2 {
		t.Fatalf("sites = %d, want 2", len(s.sites))
	}
}

func TestProjection(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/projection?initial=100&rate=5&period=per_day&years=0&months=0&days=3&record=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp projectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(resp.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(resp.Entries))
	}
	if resp.Entries[2].Amount != 110.25 {
		t.Fatalf("day 3 amount = %v, want 110.25", resp.Entries[2].Amount)
	}
	if math.Abs(resp.Summary.FinalAmount-115.7625) > 1e-9 {
		t.Fatalf("final = %v, want 115.7625", resp.Summary.FinalAmount)
	}
	if resp.History == nil {
		t.Fatal("record=1 did not add a history entry")
	}

	rec = do(t, h, http.MethodGet, "/api/history?q=USD", "")
	var entries []model.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history = %d entries, want 1", len(entries))
	}
}

func TestProjectionProgressMatch(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()
	do(t, h, http.MethodPost, "/api/storage?key=savingsProgress", `{"amount":106,"day":3,"isSet":true,"dailyRate":0.05}`)

	rec := do(t, h, http.MethodGet, "/api/projection?initial=100&rate=5&years=0&months=0&days=5", "")
	var resp projectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Match == nil || resp.Match.DayIndex != 3 || resp.Match.Exceeded {
		t.Fatalf("match = %+v, want day 3", resp.Match)
	}
}

func TestHistoryDelete(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/history", `{"initial":250}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST history = %d: %s", rec.Code, rec.Body.String())
	}
	var entry model.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}

	if rec := do(t, h, http.MethodDelete, "/api/history?id=1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("DELETE unknown = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/history?id=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("DELETE bad id = %d, want 400", rec.Code)
	}
	target := "/api/history?id=" + jsonNumber(entry.ID)
	if rec := do(t, h, http.MethodDelete, target, ""); rec.Code != http.StatusOK {
		t.Fatalf("DELETE = %d, want 200", rec.Code)
	}
}

func jsonNumber(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestJournalRoundTrip(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Handler()

	body := `{"date":"2024-03-04","symbol":"AAPL","type":"Long","entry":100,"exit":110,"quantity":2}`
	rec := do(t, h, http.MethodPost, "/api/journal", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body.String())
	}
	var trade model.Trade
	if err := json.Unmarshal(rec.Body.Bytes(), &trade); err != nil {
		t.Fatal(err)
	}
	if trade.ProfitLoss != 20 {
		t.Fatalf("profitLoss = %v, want 20", trade.ProfitLoss)
	}

	rec = do(t, h, http.MethodGet, "/api/journal?date=2024-03-04", "")
	var day dayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &day); err != nil {
		t.Fatal(err)
	}
	if len(day.Trades) != 1 || day.Stats.Net != 20 {
		t.Fatalf("day = %+v", day)
	}

	rec = do(t, h, http.MethodGet, "/api/journal/stats?month=2024-03", "")
	var month monthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &month); err != nil {
		t.Fatal(err)
	}
	if month.Summary.DaysTraded != 1 {
		t.Fatalf("month = %+v", month.Summary)
	}

	if rec := do(t, h, http.MethodDelete, "/api/journal?id="+trade.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/journal?id="+trade.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/journal", `{"date":"2024-03-04","symbol":"","type":"Long"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid trade = %d, want 400", rec.Code)
	}
}

func TestJournalUnavailable(t *testing.T) {
	s := New(Config{}, kvstore.Open(t.TempDir()), nil)
	if rec := do(t, s.Handler(), http.MethodGet, "/api/journal", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestThemeCSS(t *testing.T) {
	s, _ := newTestService(t)
	rec := do(t, s.Handler(), http.MethodGet, "/theme.css", "")
	if !strings.HasPrefix(rec.Body.String(), ":root{") {
		t.Fatalf("css = %q", rec.Body.String())
	}
}

func TestStreamSendsSnapshotThenChanges(t *testing.T) {
	s, _ := newTestService(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if l := lines.Text(); strings.HasPrefix(l, "event: ") {
				return strings.TrimPrefix(l, "event: ")
			}
		}
		return ""
	}

	if ev := next(); ev != EventSnapshot {
		t.Fatalf("first event = %q, want %q", ev, EventSnapshot)
	}
	if err := s.store.Put(kvstore.KeyHistory, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if ev := next(); ev != EventStoreChange {
		t.Fatalf("second event = %q, want %q", ev, EventStoreChange)
	}
}
