// Package storage provides SQLite-based persistence for the player profile,
// per-level progress and race history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/registry"
)

// ErrOutfitLocked is returned when equipping an outfit the player does not own.
var ErrOutfitLocked = errors.New("storage: outfit not unlocked")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// PlayerData is the single local player profile.
type PlayerData struct {
	Coins                int       `json:"coins"`
	HighestLevelUnlocked int       `json:"highestLevelUnlocked"`
	CurrentOutfit        string    `json:"currentOutfit"`
	UnlockedOutfits      []string  `json:"unlockedOutfits"`
	CreatedAt            time.Time `json:"createdAt"`
	LastPlayed           time.Time `json:"lastPlayed"`
}

// LevelProgress is the player's record on one level. BestTime and
// BestPosition are nil until the level has been finished once.
type LevelProgress struct {
	LevelNumber  int      `json:"levelNumber"`
	BestTime     *float64 `json:"bestTime"`
	BestPosition *int     `json:"bestPosition"`
	Attempts     int      `json:"attempts"`
	Completed    bool     `json:"completed"`
	Stars        int      `json:"stars"` // 0-3
}

// RaceRecord is one finished race in the history.
type RaceRecord struct {
	ID          string    `json:"id"`
	LevelNumber int       `json:"levelNumber"`
	Position    int       `json:"position"`
	Time        float64   `json:"time"`
	Coins       int       `json:"coins"`
	Outfit      string    `json:"outfit"`
	CreatedAt   time.Time `json:"createdAt"`
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; keeps RecordRace transactions from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS player_data (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			coins INTEGER NOT NULL DEFAULT 0,
			highest_level INTEGER NOT NULL DEFAULT 1,
			current_outfit TEXT NOT NULL DEFAULT 'default',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_played DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS unlocked_outfits (
			outfit_id TEXT PRIMARY KEY,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS level_progress (
			level_number INTEGER PRIMARY KEY,
			best_time REAL,
			best_position INTEGER,
			attempts INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS race_results (
			id TEXT PRIMARY KEY,
			level_number INTEGER NOT NULL,
			position INTEGER NOT NULL,
			completion_time REAL NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			outfit TEXT NOT NULL DEFAULT 'default',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_race_results_level ON race_results(level_number);
		CREATE INDEX IF NOT EXISTS idx_race_results_top ON race_results(level_number, position, completion_time);

		INSERT OR IGNORE INTO player_data (id) VALUES (1);
		INSERT OR IGNORE INTO unlocked_outfits (outfit_id) VALUES ('default');
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PlayerData loads the player profile.
func (s *Store) PlayerData(ctx context.Context) (PlayerData, error) {
	return loadPlayer(ctx, s.db)
}

// SavePlayerData overwrites the player profile and its unlocked outfits.
func (s *Store) SavePlayerData(ctx context.Context, p PlayerData) error {
	return s.inTx(ctx, func(q querier) error {
		return savePlayer(ctx, q, p)
	})
}

// LevelProgress returns the record for level n, or a zero record if the
// level was never raced.
func (s *Store) LevelProgress(ctx context.Context, n int) (LevelProgress, error) {
	return loadProgress(ctx, s.db, n)
}

// SaveLevelProgress upserts a level record.
func (s *Store) SaveLevelProgress(ctx context.Context, p LevelProgress) error {
	return saveProgress(ctx, s.db, p)
}

// AllLevelProgress returns every level that has a record, by level number.
func (s *Store) AllLevelProgress(ctx context.Context) ([]LevelProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_number, best_time, best_position, attempts, completed, stars
		 FROM level_progress
		 ORDER BY level_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}
	defer rows.Close()

	var out []LevelProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// RecordRace applies a finished race to the profile and history in one
// transaction: coins are credited, a win on the highest unlocked level
// unlocks the next one, and the level record keeps the best of old and new.
func (s *Store) RecordRace(ctx context.Context, res race.Result) (RaceRecord, error) {
	var rec RaceRecord
	err := s.inTx(ctx, func(q querier) error {
		p, err := loadPlayer(ctx, q)
		if err != nil {
			return err
		}
		p.Coins += res.CoinsEarned
		if res.Position == 1 && res.LevelNumber == p.HighestLevelUnlocked {
			p.HighestLevelUnlocked++
		}
		p.LastPlayed = time.Now().UTC()
		if err := savePlayer(ctx, q, p); err != nil {
			return err
		}

		prog, err := loadProgress(ctx, q, res.LevelNumber)
		if err != nil {
			return err
		}
		if err := saveProgress(ctx, q, ApplyResult(prog, res)); err != nil {
			return err
		}

		rec = RaceRecord{
			ID:          uuid.NewString(),
			LevelNumber: res.LevelNumber,
			Position:    res.Position,
			Time:        res.CompletionTime,
			Coins:       res.CoinsEarned,
			Outfit:      p.CurrentOutfit,
			CreatedAt:   time.Now().UTC(),
		}
		_, err = q.ExecContext(ctx,
			`INSERT INTO race_results (id, level_number, position, completion_time, coins, outfit, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.LevelNumber, rec.Position, rec.Time, rec.Coins, rec.Outfit,
			rec.CreatedAt.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save race result: %w", err)
		}
		return nil
	})
	return rec, err
}

// ApplyResult folds a race result into a level record.
func ApplyResult(p LevelProgress, res race.Result) LevelProgress {
	p.LevelNumber = res.LevelNumber
	p.Attempts++
	p.Completed = true
	p.Stars = max(p.Stars, Stars(res.Position))

	best := res.CompletionTime
	if p.BestTime != nil {
		best = math.Min(*p.BestTime, best)
	}
	p.BestTime = &best

	pos := res.Position
	if p.BestPosition != nil {
		pos = min(*p.BestPosition, pos)
	}
	p.BestPosition = &pos
	return p
}

// Stars rates a finishing position: 3 for a win, 2 for second, 1 for
// third or fourth, 0 otherwise.
func Stars(position int) int {
	switch {
	case position == 1:
		return 3
	case position == 2:
		return 2
	case position >= 3 && position <= 4:
		return 1
	default:
		return 0
	}
}

// TopResults returns the best races on a level, by position then time.
// A level of 0 means all levels, most recent first.
func (s *Store) TopResults(ctx context.Context, level, limit int) ([]RaceRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, level_number, position, completion_time, coins, outfit, created_at
		 FROM race_results
		 WHERE level_number = ?
		 ORDER BY position ASC, completion_time ASC
		 LIMIT ?`
	args := []any{level, limit}
	if level == 0 {
		query = `SELECT id, level_number, position, completion_time, coins, outfit, created_at
		 FROM race_results
		 ORDER BY created_at DESC
		 LIMIT ?`
		args = []any{limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race results: %w", err)
	}
	defer rows.Close()

	var out []RaceRecord
	for rows.Next() {
		var r RaceRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelNumber, &r.Position, &r.Time, &r.Coins, &r.Outfit, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// PurchaseOutfit spends coins on an outfit. It reports false without
// error when the outfit is unknown, already owned or too expensive.
func (s *Store) PurchaseOutfit(ctx context.Context, id string) (bool, error) {
	outfit, err := registry.Get(id)
	if err != nil {
		return false, nil
	}

	bought := false
	err = s.inTx(ctx, func(q querier) error {
		p, err := loadPlayer(ctx, q)
		if err != nil {
			return err
		}
		if p.Coins < outfit.Cost || owns(p, id) {
			return nil
		}
		p.Coins -= outfit.Cost
		p.UnlockedOutfits = append(p.UnlockedOutfits, id)
		bought = true
		return savePlayer(ctx, q, p)
	})
	return bought, err
}

// EquipOutfit makes an owned outfit the current one.
func (s *Store) EquipOutfit(ctx context.Context, id string) error {
	return s.inTx(ctx, func(q querier) error {
		p, err := loadPlayer(ctx, q)
		if err != nil {
			return err
		}
		if !owns(p, id) {
			return fmt.Errorf("%w: %s", ErrOutfitLocked, id)
		}
		p.CurrentOutfit = id
		return savePlayer(ctx, q, p)
	})
}

func owns(p PlayerData, id string) bool {
	for _, o := range p.UnlockedOutfits {
		if o == id {
			return true
		}
	}
	return false
}

func (s *Store) inTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

func loadPlayer(ctx context.Context, q querier) (PlayerData, error) {
	var p PlayerData
	var createdAt, lastPlayed any
	err := q.QueryRowContext(ctx,
		`SELECT coins, highest_level, current_outfit, created_at, last_played
		 FROM player_data WHERE id = 1`,
	).Scan(&p.Coins, &p.HighestLevelUnlocked, &p.CurrentOutfit, &createdAt, &lastPlayed)
	if err != nil {
		return PlayerData{}, fmt.Errorf("storage: cannot query player data: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.LastPlayed = parseTime(lastPlayed)

	rows, err := q.QueryContext(ctx, `SELECT outfit_id FROM unlocked_outfits ORDER BY unlocked_at, outfit_id`)
	if err != nil {
		return PlayerData{}, fmt.Errorf("storage: cannot query outfits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return PlayerData{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.UnlockedOutfits = append(p.UnlockedOutfits, id)
	}
	if err := rows.Err(); err != nil {
		return PlayerData{}, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return p, nil
}

func savePlayer(ctx context.Context, q querier, p PlayerData) error {
	if p.HighestLevelUnlocked < 1 {
		p.HighestLevelUnlocked = 1
	}
	if p.CurrentOutfit == "" {
		p.CurrentOutfit = registry.DefaultOutfit
	}
	lastPlayed := p.LastPlayed
	if lastPlayed.IsZero() {
		lastPlayed = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx,
		`UPDATE player_data SET coins = ?, highest_level = ?, current_outfit = ?, last_played = ?
		 WHERE id = 1`,
		p.Coins, p.HighestLevelUnlocked, p.CurrentOutfit, lastPlayed.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save player data: %w", err)
	}

	for _, id := range append([]string{registry.DefaultOutfit}, p.UnlockedOutfits...) {
		if _, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO unlocked_outfits (outfit_id) VALUES (?)`, id,
		); err != nil {
			return fmt.Errorf("storage: cannot unlock outfit %s: %w", id, err)
		}
	}
	return nil
}

func loadProgress(ctx context.Context, q querier, n int) (LevelProgress, error) {
	row := q.QueryRowContext(ctx,
		`SELECT level_number, best_time, best_position, attempts, completed, stars
		 FROM level_progress WHERE level_number = ?`,
		n,
	)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LevelProgress{LevelNumber: n}, nil
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(row scanner) (LevelProgress, error) {
	var p LevelProgress
	var bestTime sql.NullFloat64
	var bestPos sql.NullInt64
	err := row.Scan(&p.LevelNumber, &bestTime, &bestPos, &p.Attempts, &p.Completed, &p.Stars)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("storage: cannot scan level progress: %w", err)
	}
	if bestTime.Valid {
		p.BestTime = &bestTime.Float64
	}
	if bestPos.Valid {
		pos := int(bestPos.Int64)
		p.BestPosition = &pos
	}
	return p, nil
}

func saveProgress(ctx context.Context, q querier, p LevelProgress) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO level_progress (level_number, best_time, best_position, attempts, completed, stars)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(level_number) DO UPDATE SET
			best_time = excluded.best_time,
			best_position = excluded.best_position,
			attempts = excluded.attempts,
			completed = excluded.completed,
			stars = excluded.stars`,
		p.LevelNumber, p.BestTime, p.BestPosition, p.Attempts, p.Completed, p.Stars,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level progress: %w", err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles the driver returning DATETIME as time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
