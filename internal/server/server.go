// Package server serves the storage, projection, journal and site APIs over
// HTTP and streams change events to connected clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/msj/internal/history"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/sites"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	SitesDir     string
	Rescan       time.Duration
	EventsBuffer int
	// Defaults seeds /api/projection before query parameters apply.
	Defaults model.Params
}

// Event types published on /v1/stream.
const (
	EventSnapshot     = "snapshot"
	EventStoreChange  = "store_change"
	EventSitesChanged = "sites_changed"
	EventJournal      = "journal_change"
)

// Event is emitted whenever stored data or the site list changes.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Key       string          `json:"key,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastScanAt        time.Time `json:"last_scan_at"`
	RescanIntervalSec int       `json:"rescan_interval_sec"`
	ScanCount         int64     `json:"scan_count"`
	DataDir           string    `json:"data_dir"`
	SitesDir          string    `json:"sites_dir"`
	Sites             int       `json:"sites"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// Service provides the HTTP API and the background site scanner.
type Service struct {
	cfg     Config
	store   *kvstore.Store
	history *history.History
	journal *journal.Journal

	mu          sync.RWMutex
	startedAt   time.Time
	lastScanAt  time.Time
	scanCount   int64
	lastError   string
	sites       []sites.Site
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service over store. j may be nil, in which case the journal
// endpoints answer 503.
func New(cfg Config, store *kvstore.Store, j *journal.Journal) *Service {
	if cfg.Rescan < 2*time.Second {
		cfg.Rescan = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Defaults.Currency.Code == "" {
		cfg.Defaults = model.DefaultParams()
	}

	s := &Service{
		cfg:       cfg,
		store:     store,
		history:   history.New(store),
		journal:   j,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	store.OnChange(func(c kvstore.Change) {
		s.publish(EventStoreChange, c.Key, c.Value)
	})
	return s
}

// Handler returns the routed API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	mux.HandleFunc("/api/storage", s.handleStorage)
	mux.HandleFunc("/api/sites", s.handleSites)
	mux.HandleFunc("/api/projection", s.handleProjection)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/journal", s.handleJournal)
	mux.HandleFunc("/api/journal/stats", s.handleJournalStats)
	mux.HandleFunc("/theme.css", s.handleThemeCSS)

	if s.cfg.SitesDir != "" {
		mux.Handle("/sites/", http.StripPrefix("/sites/", http.FileServer(http.Dir(s.cfg.SitesDir))))
	}
	return mux
}

// Run serves HTTP and rescans the sites directory until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("msj server listening on http://%s", s.cfg.Addr)

	// Seed the site list so /api/sites is useful immediately.
	s.scanOnce()

	ticker := time.NewTicker(s.cfg.Rescan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.scanOnce()
		case err := <-errCh:
			return fmt.Errorf("msj http server: %w", err)
		}
	}
}

func (s *Service) scanOnce() {
	if s.cfg.SitesDir == "" {
		return
	}
	found, err := sites.Scan(s.cfg.SitesDir)
	now := time.Now()

	s.mu.Lock()
	s.lastScanAt = now
	s.scanCount++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("msj site scan error: %v", err)
		return
	}
	s.lastError = ""
	changed := !sites.Equal(s.sites, found)
	first := s.scanCount == 1
	s.sites = found
	s.mu.Unlock()

	if changed && !first {
		data, _ := json.Marshal(sites.NewListing(found))
		s.publish(EventSitesChanged, "", data)
	}
}

func (s *Service) currentSites() ([]sites.Site, error) {
	s.mu.RLock()
	scanned := s.scanCount > 0 && s.lastError == ""
	list := append([]sites.Site(nil), s.sites...)
	s.mu.RUnlock()
	if scanned || s.cfg.SitesDir == "" {
		return list, nil
	}
	s.scanOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastError != "" {
		return nil, errors.New(s.lastError)
	}
	return append([]sites.Site(nil), s.sites...), nil
}

// publish numbers and delivers an event under one lock, so the ring and
// every subscriber see IDs in increasing order.
func (s *Service) publish(typ, key string, data json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	s.deliverLocked(Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Key:       key,
		Data:      data,
	})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliverLocked(ev)
}

func (s *Service) deliverLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastScanAt:        s.lastScanAt,
		RescanIntervalSec: int(s.cfg.Rescan.Seconds()),
		ScanCount:         s.scanCount,
		DataDir:           s.store.Dir(),
		SitesDir:          s.cfg.SitesDir,
		Sites:             len(s.sites),
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	status, _ := json.Marshal(s.snapshotStatus())
	writeSSE(w, Event{Type: EventSnapshot, Timestamp: time.Now(), Data: status})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
