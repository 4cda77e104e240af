package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

// LevelResponse describes a generated level.
type LevelResponse struct {
	*level.Level
	Fingerprint string                     `json:"fingerprint"`
	Counts      map[level.ObstacleType]int `json:"counts"`
}

// SimulateRequest is the body of POST /levels/{n}/simulate. All fields are
// optional.
type SimulateRequest struct {
	Runs int   `json:"runs"`
	Seed int64 `json:"seed"`
	Bots *int  `json:"bots"`
}

// SimulateResponse lists each finished race and their summary.
type SimulateResponse struct {
	Level   int           `json:"level"`
	Results []race.Result `json:"results"`
	Summary race.Summary  `json:"summary"`
}

// levelNumber parses the {n} URL parameter.
func levelNumber(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("level must be at least 1, got %d", n)
	}
	return n, nil
}

// getLevel GET /levels/{n}
func (s *Server) getLevel(w http.ResponseWriter, r *http.Request) {
	n, err := levelNumber(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	lvl := level.NewGenerator(s.cfg.Settings.Level).Generate(n)
	writeJSON(w, http.StatusOK, LevelResponse{
		Level:       lvl,
		Fingerprint: fmt.Sprintf("%016x", lvl.Fingerprint()),
		Counts:      lvl.Counts(),
	})
}

// simulate POST /levels/{n}/simulate
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	n, err := levelNumber(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Runs <= 0 {
		req.Runs = 1
	}
	if req.Runs > s.cfg.MaxRuns {
		errorJSON(w, http.StatusBadRequest, fmt.Sprintf("runs must be at most %d", s.cfg.MaxRuns))
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	settings := s.cfg.Settings
	if req.Bots != nil {
		if *req.Bots < 0 || *req.Bots > len(settings.Multipliers)-1 {
			errorJSON(w, http.StatusBadRequest, fmt.Sprintf("bots must be between 0 and %d", len(settings.Multipliers)-1))
			return
		}
		settings.Bots = *req.Bots
	}

	ctx := r.Context()
	results := make([]race.Result, 0, req.Runs)
	for i := 0; i < req.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return
		}
		res, ok, err := race.Simulate(n, settings, req.Seed+int64(i), race.DefaultRaceTimeLimit, s.log)
		if err != nil {
			errorJSON(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ok {
			results = append(results, res)
		}
	}

	s.log.Debug("simulated races", "level", n, "runs", req.Runs, "finished", len(results))
	writeJSON(w, http.StatusOK, SimulateResponse{
		Level:   n,
		Results: results,
		Summary: race.Summarize(req.Runs, results),
	})
}

// profile GET /profile
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		errorJSON(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := s.cfg.Store.PlayerData(ctx)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// results GET /results?level=n&limit=k
func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		errorJSON(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	lvl := parseInt(r.URL.Query().Get("level"), 0)
	limit := min(max(parseInt(r.URL.Query().Get("limit"), 20), 1), 100)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.cfg.Store.TopResults(ctx, lvl, limit)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res == nil {
		res = []storage.RaceRecord{}
	}
	writeJSON(w, http.StatusOK, res)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
