package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/registry"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

// lockedPreview is how many locked levels are listed past the highest
// unlocked one.
const lockedPreview = 3

// LevelItem is one row of the level picker.
type LevelItem struct {
	Number     int
	Difficulty float64
	Stars      int
	BestTime   *float64
	Locked     bool
}

// PickerModel is the Bubble Tea model for choosing a level and outfit.
type PickerModel struct {
	store       *storage.Store
	items       []LevelItem
	outfits     []registry.Outfit // every registered outfit, cheapest first
	owned       map[string]bool
	outfit      int
	coins       int
	status      string
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *LevelItem
	openResults bool
}

// NewPickerModel creates a level picker from the stored profile. A nil
// store shows only level 1 and owns only the default outfit.
func NewPickerModel(store *storage.Store, width, height int) PickerModel {
	m := PickerModel{
		store:   store,
		width:   width,
		height:  height,
		outfits: registry.List(),
		owned:   map[string]bool{registry.DefaultOutfit: true},
	}
	m.selectOutfit(registry.DefaultOutfit)

	highest := 1
	progress := map[int]storage.LevelProgress{}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if p, err := store.PlayerData(ctx); err == nil {
			highest = p.HighestLevelUnlocked
			m.coins = p.Coins
			for _, id := range p.UnlockedOutfits {
				m.owned[id] = true
			}
			m.selectOutfit(p.CurrentOutfit)
		}
		if all, err := store.AllLevelProgress(ctx); err == nil {
			for _, lp := range all {
				progress[lp.LevelNumber] = lp
			}
		}
	}

	for n := 1; n <= highest+lockedPreview; n++ {
		lp := progress[n]
		m.items = append(m.items, LevelItem{
			Number:     n,
			Difficulty: level.Difficulty(n),
			Stars:      lp.Stars,
			BestTime:   lp.BestTime,
			Locked:     n > highest,
		})
	}
	m.cursor = highest - 1
	return m
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.outfit = (m.outfit - 1 + len(m.outfits)) % len(m.outfits)
		m.status = ""

	case MenuActionRight:
		m.outfit = (m.outfit + 1) % len(m.outfits)
		m.status = ""

	case MenuActionBuy:
		m.buyOutfit()

	case MenuActionSelect:
		item := m.items[m.cursor]
		if item.Locked {
			break
		}
		if !m.owned[m.Outfit()] {
			m.status = "Outfit locked: press U to buy it"
			break
		}
		if err := m.equipOutfit(); err != nil {
			m.status = err.Error()
			break
		}
		m.selected = &item
		return m, tea.Quit

	case MenuActionResults:
		m.openResults = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	lockedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("P A R K O U R   R A C E", m.width)))
	b.WriteString("\n\n")

	outfit := m.outfits[m.outfit]
	header := fmt.Sprintf("Coins: %d   Outfit: < %s >", m.coins, outfit.Name)
	if !m.owned[outfit.ID] {
		header += fmt.Sprintf("  locked, %d coins", outfit.Cost)
	}
	b.WriteString(centerText(header, m.width))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(lockedStyle.Render(centerText(m.status, m.width)))
	}
	b.WriteString("\n")

	for _, i := range m.visibleRange() {
		item := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		best := "  --  "
		if item.BestTime != nil {
			best = fmt.Sprintf("%5.1fs", *item.BestTime)
		}
		line := fmt.Sprintf("%sLevel %-3d  diff %.2f  %s  ", cursor, item.Number, item.Difficulty, best)

		var row string
		switch {
		case item.Locked:
			row = lockedStyle.Render(line + "locked")
		case i == m.cursor:
			row = cursorStyle.Render(line) + starStyle.Render(stars(item.Stars))
		default:
			row = line + starStyle.Render(stars(item.Stars))
		}
		b.WriteString(centerText(row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Level  |  Left/Right: Outfit  |  U: Buy outfit  |  Enter: Race  |  Tab: Results  |  Q: Quit"
	b.WriteString(lockedStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")
	return b.String()
}

// visibleRange returns the item indexes that fit on screen around the
// cursor.
func (m PickerModel) visibleRange() []int {
	rows := max(m.height-9, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.items))

	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// selectOutfit moves the outfit cursor to id if it is registered.
func (m *PickerModel) selectOutfit(id string) {
	for i, o := range m.outfits {
		if o.ID == id {
			m.outfit = i
		}
	}
}

// buyOutfit spends coins on the outfit under the cursor and wears it.
func (m *PickerModel) buyOutfit() {
	outfit := m.outfits[m.outfit]
	switch {
	case m.owned[outfit.ID]:
		m.status = outfit.Name + " is already yours"
		return
	case m.store == nil:
		m.status = "Progress is not saved, outfits cannot be bought"
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bought, err := m.store.PurchaseOutfit(ctx, outfit.ID)
	if err != nil {
		m.status = err.Error()
		return
	}
	if !bought {
		m.status = fmt.Sprintf("%s costs %d coins, you have %d", outfit.Name, outfit.Cost, m.coins)
		return
	}
	m.owned[outfit.ID] = true
	if p, err := m.store.PlayerData(ctx); err == nil {
		m.coins = p.Coins
	}
	if err := m.store.EquipOutfit(ctx, outfit.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Bought " + outfit.Name
}

// equipOutfit stores the outfit under the cursor as the current one.
func (m *PickerModel) equipOutfit() error {
	if m.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.store.EquipOutfit(ctx, m.Outfit())
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// Selected returns the chosen level, or nil if none was chosen.
func (m PickerModel) Selected() *LevelItem { return m.selected }

// Outfit returns the outfit shown in the picker.
func (m PickerModel) Outfit() string { return m.outfits[m.outfit].ID }

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool { return m.quitting }

// WantsResults returns true if user asked for the results board.
func (m PickerModel) WantsResults() bool { return m.openResults }

// PickerResult holds the result of running the picker.
type PickerResult struct {
	Level        int
	Outfit       string
	WantsResults bool
	Quit         bool
}

// Result summarizes what the user chose.
func (m PickerModel) Result() PickerResult {
	switch {
	case m.openResults:
		return PickerResult{WantsResults: true, Outfit: m.Outfit()}
	case m.selected != nil:
		return PickerResult{Level: m.selected.Number, Outfit: m.Outfit()}
	default:
		return PickerResult{Quit: true}
	}
}

// RunPicker runs the level picker and returns the selection.
func RunPicker(store *storage.Store, width, height int) (PickerResult, error) {
	p := tea.NewProgram(NewPickerModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return PickerResult{Quit: true}, err
	}
	m, ok := final.(PickerModel)
	if !ok {
		return PickerResult{Quit: true}, nil
	}
	return m.Result(), nil
}
