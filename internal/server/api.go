package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/history"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/palette"
	"github.com/theirongolddev/msj/internal/sites"
	"github.com/theirongolddev/msj/internal/store"
)

const maxBody = 4 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *Service) handleStorage(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if _, err := kvstore.Default(key); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid key")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if path := r.URL.Query().Get("path"); path != "" {
			v, err := s.store.Query(key, path)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, v)
			return
		}
		raw, err := s.store.Get(key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, raw)

	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "No input")
			return
		}
		if err := s.store.Put(key, body); err != nil {
			if errors.Is(err, kvstore.ErrInvalidJSON) {
				writeError(w, http.StatusBadRequest, "Invalid JSON")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to write file")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Service) handleSites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	list, err := s.currentSites()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		list = sites.Search(list, q)
	}
	writeJSON(w, http.StatusOK, sites.NewListing(list))
}

type progressMatch struct {
	DayIndex int  `json:"dayIndex"`
	Exceeded bool `json:"exceeded"`
}

type projectionSummary struct {
	FinalAmount float64 `json:"finalAmount"`
	Days        int     `json:"days"`
	TargetMode  bool    `json:"targetMode"`
	Reached     bool    `json:"reached"`
	Degenerate  bool    `json:"degenerate,omitempty"`
}

type projectionResponse struct {
	Params    model.Params        `json:"params"`
	DailyRate float64             `json:"dailyRate"`
	Summary   projectionSummary   `json:"summary"`
	Entries   []growth.Entry      `json:"entries"`
	Progress  model.Progress      `json:"progress"`
	Match     *progressMatch      `json:"progressMatch,omitempty"`
	History   *model.HistoryEntry `json:"history,omitempty"`
}

// handleProjection computes a projection from query parameters layered over
// the configured defaults. record=1 also appends the params to history.
func (s *Service) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	q := r.URL.Query()
	params := model.ParseParams(q, s.cfg.Defaults)
	res := growth.Compute(params.Input(time.Now()))

	resp := projectionResponse{
		Params:    params,
		DailyRate: res.DailyRate,
		Summary: projectionSummary{
			FinalAmount: res.Summary.FinalAmount,
			Days:        res.Summary.Days,
			TargetMode:  res.Summary.TargetMode,
			Reached:     res.Summary.Reached,
			Degenerate:  res.Projection.Degenerate,
		},
		Entries: res.Projection.Entries,
	}
	if resp.Entries == nil {
		resp.Entries = []growth.Entry{}
	}

	progress, err := kvstore.Load[model.Progress](s.store, kvstore.KeyProgress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp.Progress = progress
	if progress.IsSet {
		m := growth.LocateProgress(res.Projection.Entries, progress.Amount)
		resp.Match = &progressMatch{DayIndex: m.DayIndex, Exceeded: m.Exceeded}
	}

	if q.Get("record") == "1" {
		entry, err := s.history.Add(params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.History = &entry
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.history.Search(r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []model.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodPost:
		params := s.cfg.Defaults
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		params.Normalize()
		entry, err := s.history.Add(params)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, entry)

	case http.MethodDelete:
		raw := r.URL.Query().Get("id")
		if raw == "all" {
			if err := s.history.Clear(); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid id")
			return
		}
		if err := s.history.Delete(id); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

type tradeRequest struct {
	Date     string  `json:"date"`
	Symbol   string  `json:"symbol"`
	Type     string  `json:"type"`
	Entry    float64 `json:"entry"`
	Exit     float64 `json:"exit"`
	Quantity float64 `json:"quantity"`
	Notes    string  `json:"notes"`
}

type dayResponse struct {
	Date   string         `json:"date"`
	Trades []model.Trade  `json:"trades"`
	Stats  model.DayStats `json:"stats"`
}

func (s *Service) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "journal unavailable")
		return
	}

	switch r.Method {
	case http.MethodGet:
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format(model.DateLayout)
		}
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		trades, stats, err := s.journal.Day(date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if trades == nil {
			trades = []model.Trade{}
		}
		writeJSON(w, http.StatusOK, dayResponse{Date: date, Trades: trades, Stats: stats})

	case http.MethodPost:
		var req tradeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		trade, err := s.journal.Add(journal.Input(req))
		if err != nil {
			if errors.Is(err, journal.ErrInvalidTrade) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		data, _ := json.Marshal(trade)
		s.publish(EventJournal, trade.Date, data)
		writeJSON(w, http.StatusCreated, trade)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "Invalid id")
			return
		}
		if err := s.journal.Delete(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "trade not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.publish(EventJournal, "", nil)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

type monthResponse struct {
	Summary model.MonthStats          `json:"summary"`
	Days    map[string]model.DayStats `json:"days"`
}

// handleJournalStats answers ?date=YYYY-MM-DD with one day's stats and
// ?month=YYYY-MM with the month summary.
func (s *Service) handleJournalStats(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "journal unavailable")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	q := r.URL.Query()
	if month := q.Get("month"); month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		ms, days, err := s.journal.Month(t.Year(), t.Month())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, monthResponse{Summary: ms, Days: days})
		return
	}

	date := q.Get("date")
	if date == "" {
		date = time.Now().Format(model.DateLayout)
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	_, stats, err := s.journal.Day(date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	vars, err := palette.Load(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.WriteString(w, vars.CSS())
}
