package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

func TestResultsBoardTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, r := range []race.Result{
		{Position: 1, LevelNumber: 1, CompletionTime: 14.5, CoinsEarned: 50},
		{Position: 3, LevelNumber: 2, CompletionTime: 20, CoinsEarned: 30},
	} {
		if _, err := store.RecordRace(ctx, r); err != nil {
			t.Fatalf("RecordRace: %v", err)
		}
	}

	m := NewResultsModel(store, 100, 30)
	if len(m.tabs) != 3 {
		t.Fatalf("tabs = %d, want recent + 2 levels", len(m.tabs))
	}
	if len(m.races) != 2 {
		t.Errorf("recent tab shows %d races", len(m.races))
	}
	if !strings.Contains(m.View(), "RACE RESULTS") {
		t.Error("missing title")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ResultsModel)
	if m.tabs[m.tab].LevelNumber != 1 || len(m.races) != 1 {
		t.Fatalf("tab %d shows %d races", m.tab, len(m.races))
	}
	if s := m.summary(); !strings.Contains(s, "Level 1") || !strings.Contains(s, "14.50s") {
		t.Errorf("summary %q", s)
	}

	// Wraps around backwards from the first tab.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.(ResultsModel).Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ResultsModel)
	if m.tabs[m.tab].LevelNumber != 2 {
		t.Errorf("expected level 2 tab, got %d", m.tabs[m.tab].LevelNumber)
	}
}

func TestResultsBoardWithoutStore(t *testing.T) {
	m := NewResultsModel(nil, 50, 20)
	if len(m.tabs) != 1 || len(m.races) != 0 {
		t.Fatalf("tabs=%d races=%d", len(m.tabs), len(m.races))
	}
	if !strings.Contains(m.View(), "No races recorded yet") {
		t.Error("expected empty message")
	}
	if len(m.table.Columns()) != 5 {
		t.Errorf("narrow board should drop the date column, got %d columns", len(m.table.Columns()))
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if !next.(ResultsModel).IsGoingBack() || cmd == nil {
		t.Error("b should go back")
	}
}
