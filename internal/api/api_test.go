package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *httptest.Server {
	t.Helper()
	s := race.DefaultSettings()
	s.Bots = 0
	srv := httptest.NewServer(NewServer(Config{Settings: s, Store: store, MaxRuns: 5, WatchFPS: 50}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	var body map[string]string
	if code := getJSON(t, srv.URL+"/health", &body); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body %v", body)
	}
}

func TestGetLevel(t *testing.T) {
	srv := newTestServer(t, nil)

	var body struct {
		LevelNumber int              `json:"levelNumber"`
		Seed        int64            `json:"seed"`
		Length      float64          `json:"length"`
		Fingerprint string           `json:"fingerprint"`
		Counts      map[string]int   `json:"counts"`
		Obstacles   []map[string]any `json:"obstacles"`
	}
	if code := getJSON(t, srv.URL+"/levels/7", &body); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}

	want := level.NewGenerator(race.DefaultSettings().Level).Generate(7)
	if body.LevelNumber != 7 || body.Seed != level.Seed(7) || body.Length != want.Length {
		t.Errorf("level header %+v", body)
	}
	if body.Fingerprint != fmt.Sprintf("%016x", want.Fingerprint()) {
		t.Errorf("fingerprint %s", body.Fingerprint)
	}
	if len(body.Obstacles) != len(want.Obstacles) {
		t.Errorf("obstacles %d, expected %d", len(body.Obstacles), len(want.Obstacles))
	}
	total := 0
	for _, c := range body.Counts {
		total += c
	}
	if total != len(want.Obstacles) {
		t.Errorf("counts add up to %d, expected %d", total, len(want.Obstacles))
	}
}

func TestGetLevelRejectsBadNumbers(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/levels/0", "/levels/-3", "/levels/abc"} {
		var body apiError
		if code := getJSON(t, srv.URL+path, &body); code != http.StatusBadRequest {
			t.Errorf("%s: status %d", path, code)
		}
		if body.Error == "" {
			t.Errorf("%s: missing error message", path)
		}
	}
}

func postSimulate(t *testing.T, url, body string) (*http.Response, SimulateResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out SimulateResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, out
}

func TestSimulate(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := postSimulate(t, srv.URL+"/levels/2/simulate", `{"runs": 2, "seed": 9}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out.Level != 2 || out.Summary.Runs != 2 || len(out.Results) != 2 {
		t.Fatalf("response %+v", out)
	}
	// Alone on the course every finished race is a win.
	if out.Summary.Wins != 2 || out.Results[0].CoinsEarned != 50 {
		t.Errorf("summary %+v", out.Summary)
	}

	// Same seed, same races.
	_, again := postSimulate(t, srv.URL+"/levels/2/simulate", `{"runs": 2, "seed": 9}`)
	if again.Results[0] != out.Results[0] || again.Results[1] != out.Results[1] {
		t.Error("simulation with a fixed seed should be reproducible")
	}
}

func TestSimulateWithBots(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := postSimulate(t, srv.URL+"/levels/3/simulate", `{"seed": 4, "bots": 5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out.Summary.Runs != 1 {
		t.Errorf("runs %d, expected the default of 1", out.Summary.Runs)
	}
	for _, r := range out.Results {
		if r.Position < 1 || r.Position > 6 {
			t.Errorf("position %d out of range", r.Position)
		}
	}
}

func TestSimulateEmptyBody(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, out := postSimulate(t, srv.URL+"/levels/1/simulate", "")
	if resp.StatusCode != http.StatusOK || out.Summary.Runs != 1 {
		t.Errorf("status %d, summary %+v", resp.StatusCode, out.Summary)
	}
}

func TestSimulateValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"too many runs", "/levels/1/simulate", `{"runs": 6}`},
		{"bad json", "/levels/1/simulate", `{"runs":`},
		{"too many bots", "/levels/1/simulate", `{"bots": 6}`},
		{"negative bots", "/levels/1/simulate", `{"bots": -1}`},
		{"bad level", "/levels/0/simulate", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postSimulate(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status %d", resp.StatusCode)
			}
		})
	}
}

func TestStorageRoutesWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/profile", "/results"} {
		if code := getJSON(t, srv.URL+path, nil); code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d", path, code)
		}
	}
}

func TestStorageRoutes(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()
	store.RecordRace(context.Background(), race.Result{Position: 2, LevelNumber: 1, CompletionTime: 16, CoinsEarned: 40})

	srv := newTestServer(t, store)

	var p storage.PlayerData
	if code := getJSON(t, srv.URL+"/profile", &p); code != http.StatusOK {
		t.Fatalf("profile status %d", code)
	}
	if p.Coins != 40 {
		t.Errorf("coins %d", p.Coins)
	}

	var recs []storage.RaceRecord
	if code := getJSON(t, srv.URL+"/results?level=1", &recs); code != http.StatusOK {
		t.Fatalf("results status %d", code)
	}
	if len(recs) != 1 || recs[0].Position != 2 {
		t.Errorf("results %+v", recs)
	}

	recs = nil
	getJSON(t, srv.URL+"/results?level=9", &recs)
	if recs == nil || len(recs) != 0 {
		t.Errorf("empty level should return an empty list, got %v", recs)
	}
}

func TestWatch(t *testing.T) {
	srv := newTestServer(t, nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/levels/1/watch?speed=20&seed=3"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(20 * time.Second))

	var countdowns []int
	positions := 0
	var result *race.Result
	for result == nil {
		var m WatchMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read after %d position frames: %v", positions, err)
		}
		if m.Level != 1 {
			t.Errorf("message for level %d", m.Level)
		}
		switch m.Type {
		case MsgCountdown:
			countdowns = append(countdowns, m.Countdown)
		case MsgPositions:
			positions++
			if len(m.Positions) != 1 || !m.Positions[0].IsPlayer {
				t.Fatalf("positions %+v", m.Positions)
			}
		case MsgResult:
			result = m.Result
		default:
			t.Fatalf("unexpected message type %q", m.Type)
		}
	}

	if len(countdowns) != 3 || countdowns[0] != 3 || countdowns[2] != 1 {
		t.Errorf("countdowns %v", countdowns)
	}
	if positions == 0 {
		t.Error("no position frames streamed")
	}
	if result.Position != 1 || result.LevelNumber != 1 {
		t.Errorf("result %+v", *result)
	}
}

func TestWatchRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/levels/0/watch", "/levels/1/watch?speed=-1", "/levels/1/watch?speed=abc"} {
		if code := getJSON(t, srv.URL+path, nil); code != http.StatusBadRequest {
			t.Errorf("%s: status %d", path, code)
		}
	}
}
