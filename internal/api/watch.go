package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/random"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message types sent on the watch stream.
const (
	MsgCountdown = "countdown"
	MsgPositions = "positions"
	MsgResult    = "result"
	MsgTimeout   = "timeout"
)

// WatchMessage is one frame of the watch stream.
type WatchMessage struct {
	Type      string              `json:"type"`
	Level     int                 `json:"level"`
	Time      float64             `json:"time"`
	Countdown int                 `json:"countdown,omitempty"`
	Positions []race.RacePosition `json:"positions,omitempty"`
	Result    *race.Result        `json:"result,omitempty"`
}

// watch GET /levels/{n}/watch?speed=x&seed=s
//
// Runs an autopilot race paced by wall time and streams it: countdown
// numbers, then the standings every frame, then the result.
func (s *Server) watch(w http.ResponseWriter, r *http.Request) {
	n, err := levelNumber(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	speed := 1.0
	if raw := r.URL.Query().Get("speed"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0) {
			errorJSON(w, http.StatusBadRequest, "speed must be a positive number")
			return
		}
		speed = core.Clamp(v, 0.1, 20)
	}
	seed := int64(parseInt(r.URL.Query().Get("seed"), 0))

	var countdowns []int
	settings := s.cfg.Settings
	e, err := race.New(race.Options{
		Renderer:  race.Discard,
		Level:     n,
		Autopilot: true,
		Settings:  &settings,
		Rand:      random.NewSource(seed),
		Logger:    s.log,
		Callbacks: race.Callbacks{
			OnCountdown: func(sec int) { countdowns = append(countdowns, sec) },
		},
	})
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	defer e.Destroy()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// The client only ever closes; any read error ends the stream.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	s.log.Info("watch started", "level", n, "speed", speed, "remote", r.RemoteAddr)

	interval := time.Second / time.Duration(s.cfg.WatchFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	send := func(m WatchMessage) bool {
		m.Level = n
		m.Time = e.RaceTime()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(m); err != nil {
			s.log.Debug("watch write failed", "error", err)
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		advance(e, interval.Seconds()*speed)

		for _, c := range countdowns {
			if !send(WatchMessage{Type: MsgCountdown, Countdown: c}) {
				return
			}
		}
		countdowns = countdowns[:0]

		switch {
		case e.Phase() == race.Finished:
			res, _ := e.Result()
			if send(WatchMessage{Type: MsgPositions, Positions: e.Positions()}) {
				send(WatchMessage{Type: MsgResult, Result: &res})
			}
			closeNormally(conn)
			return

		case e.RaceTime() >= race.DefaultRaceTimeLimit:
			send(WatchMessage{Type: MsgTimeout})
			closeNormally(conn)
			return

		case e.Phase() == race.Running:
			if !send(WatchMessage{Type: MsgPositions, Positions: e.Positions()}) {
				return
			}
		}
	}
}

// advance feeds dt seconds to the engine in slices no longer than its
// frame clamp, so fast playback is not slowed by the clamp.
func advance(e *race.Engine, dt float64) {
	maxDelta := e.Settings().MaxFrameDelta
	if maxDelta <= 0 {
		maxDelta = dt
	}
	for dt > 0 && e.Phase() != race.Finished {
		step := min(dt, maxDelta)
		e.Advance(step)
		dt -= step
	}
}

func closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "race over")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
