package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/catalog"
	"github.com/ganot/atelier/internal/domain/project"
)

func testModel(t *testing.T, opts Options) Model {
	t.Helper()
	projects, err := catalog.Default()
	require.NoError(t, err)
	return NewModel(projects, opts)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends message and returns the updated model and command.
func press(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	result, ok := updated.(Model)
	require.True(t, ok)
	return result, cmd
}

func visibleIDs(model Model) []string {
	ids := make([]string, 0, len(model.Visible()))
	for _, p := range model.Visible() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestNewModel_ShowsWholeCatalog(t *testing.T) {
	model := testModel(t, Options{})

	require.Equal(t, project.AllTag, model.ActiveTag())
	require.Equal(t, []string{"seongbuk-house", "river-pavilion", "market-commons"}, visibleIDs(model))
	require.Equal(t, project.AllTag, model.Tags()[0])
	require.Equal(t, 0, model.KeyListeners())
}

func TestNewModel_InitialFilter(t *testing.T) {
	model := testModel(t, Options{Tag: "공공"})
	require.Equal(t, "공공", model.ActiveTag())
	require.Equal(t, []string{"river-pavilion"}, visibleIDs(model))

	model = testModel(t, Options{Tag: "없는태그"})
	require.Equal(t, project.AllTag, model.ActiveTag())
	require.Len(t, model.Visible(), 3)

	model = testModel(t, Options{Query: "콘크리트"})
	require.Equal(t, []string{"river-pavilion"}, visibleIDs(model))
}

func TestModel_TagCycling(t *testing.T) {
	model := testModel(t, Options{})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "리노베이션", model.ActiveTag())
	require.Equal(t, []string{"seongbuk-house"}, visibleIDs(model))

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyShiftTab})
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, "지속가능", model.ActiveTag())
	require.Equal(t, []string{"market-commons"}, visibleIDs(model))
}

func TestModel_SearchInput(t *testing.T) {
	model := testModel(t, Options{})

	model, _ = press(t, model, runes("/"))
	require.Equal(t, FocusSearch, model.Focus())

	for _, r := range "residential" {
		model, _ = press(t, model, runes(string(r)))
	}
	require.Equal(t, "residential", model.Query())
	require.Equal(t, []string{"seongbuk-house"}, visibleIDs(model))

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, FocusList, model.Focus())
	require.Equal(t, "residential", model.Query())

	model, _ = press(t, model, runes("/"))
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, FocusList, model.Focus())
	require.Empty(t, model.Query())
	require.Len(t, model.Visible(), 3)
}

func TestModel_CursorClampedByFilter(t *testing.T) {
	model := testModel(t, Options{})

	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, runes("j"))
	require.Equal(t, 2, model.Cursor())

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 0, model.Cursor())
}

func TestModel_OpenNavigateClose(t *testing.T) {
	model := testModel(t, Options{})

	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, FocusDetail, model.Focus())
	require.Equal(t, "seongbuk-house", model.Selection().Project.ID)
	require.Equal(t, 0, model.Selection().Index)
	require.Equal(t, 1, model.KeyListeners())

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 2, model.Selection().Index)

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 0, model.Selection().Index)

	// List keys do nothing while the carousel is open.
	model, _ = press(t, model, runes("j"))
	require.Equal(t, 0, model.Selection().Index)
	require.Equal(t, 0, model.Cursor())

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, model.Selection().Selected())
	require.Equal(t, FocusList, model.Focus())
	require.Equal(t, 0, model.KeyListeners())
}

func TestModel_RepeatedOpenKeepsOneListener(t *testing.T) {
	model := testModel(t, Options{})

	for range 5 {
		model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, 1, model.KeyListeners())
		model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
		require.Equal(t, 0, model.KeyListeners())
	}
}

func TestModel_JumpKeys(t *testing.T) {
	model := testModel(t, Options{})
	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "river-pavilion", model.Selection().Project.ID)

	model, _ = press(t, model, runes("2"))
	require.Equal(t, 1, model.Selection().Index)

	model, _ = press(t, model, runes("3"))
	require.Equal(t, 1, model.Selection().Index)
	require.Equal(t, "no image 3", model.Status())
}

func TestModel_ReboundJumpKeys(t *testing.T) {
	keys := DefaultKeyMap
	keys.Jump = key.NewBinding(key.WithKeys("f1", "f2", "f3"))
	model := testModel(t, Options{Keys: &keys})
	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "market-commons", model.Selection().Project.ID)

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, 2, model.Selection().Index)

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyF1})
	require.Equal(t, 0, model.Selection().Index)

	// Digits are no longer jump keys.
	model, _ = press(t, model, runes("2"))
	require.Equal(t, 0, model.Selection().Index)
}

func TestModel_CtrlCQuitsFromSearch(t *testing.T) {
	model := testModel(t, Options{})
	model, _ = press(t, model, runes("/"))
	require.Equal(t, FocusSearch, model.Focus())

	model, cmd := press(t, model, runes("q"))
	require.Equal(t, "q", model.Query())
	require.Equal(t, FocusSearch, model.Focus())

	model, cmd = press(t, model, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Equal(t, "q", model.Query())
}

func TestModel_DeferredFocus(t *testing.T) {
	model := testModel(t, Options{})
	model, _ = press(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})

	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, model.DetailFocused())

	model, _ = press(t, model, cmd())
	require.True(t, model.DetailFocused())
}

func TestModel_DeferredFocusSkippedWhenUnmounted(t *testing.T) {
	model := testModel(t, Options{})

	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = press(t, model, cmd())
	require.False(t, model.DetailFocused())
	require.True(t, model.Selection().Selected())
}

func TestModel_DeferredFocusDroppedAfterClose(t *testing.T) {
	model := testModel(t, Options{})
	model, _ = press(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})

	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	model, _ = press(t, model, cmd())
	require.False(t, model.DetailFocused())
}

func TestModel_QuitTearsDownListener(t *testing.T) {
	model := testModel(t, Options{})
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, model.KeyListeners())

	model, cmd := press(t, model, runes("q"))
	require.NotNil(t, cmd)
	require.Equal(t, 0, model.KeyListeners())
}

func TestView_ListAndDetail(t *testing.T) {
	model := testModel(t, Options{})

	view := model.View()
	require.Contains(t, view, "성북동 주택 리노베이션")
	require.Contains(t, view, project.AllTag)

	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	view = model.View()
	require.Contains(t, view, "강변 파빌리온")
	require.Contains(t, view, "[1/2]")
	require.Contains(t, view, "Report unavailable")

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	model, _ = press(t, model, runes("j"))
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	view = model.View()
	require.Contains(t, view, "/reports/market-commons.pdf")
	require.False(t, strings.Contains(view, "Report unavailable"))
}

func TestView_EmptyResult(t *testing.T) {
	model := testModel(t, Options{Query: "zzz"})
	require.Empty(t, model.Visible())
	require.Contains(t, model.View(), emptyListText)

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, model.Selection().Selected())
}
