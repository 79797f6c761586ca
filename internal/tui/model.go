package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
)

// FocusRegion identifies which part of the viewer receives key presses.
type FocusRegion int

const (
	// FocusList means navigation keys move the list cursor.
	FocusList FocusRegion = iota
	// FocusSearch means keystrokes go to the search input.
	FocusSearch
	// FocusDetail means a project is open and keys drive the carousel.
	FocusDetail
)

// errDetailNotMounted is returned by the focus transfer when the
// terminal has not reported a size yet, so nothing has been drawn.
var errDetailNotMounted = errors.New("detail view not mounted")

// deferredMsg asks the model to run work queued by the carousel
// controller's scheduler.
type deferredMsg struct{}

// deferQueue holds callbacks scheduled during one Update until the next
// message. It is shared by pointer because bubbletea copies the model.
type deferQueue struct {
	pending []func()
}

func (queue *deferQueue) Defer(fn func()) {
	queue.pending = append(queue.pending, fn)
}

func (queue *deferQueue) drain() {
	pending := queue.pending
	queue.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// detailPane tracks whether the modal has been drawn and focused.
type detailPane struct {
	mounted bool
	focused bool
}

func (pane *detailPane) focus() error {
	if !pane.mounted {
		return errDetailNotMounted
	}
	pane.focused = true
	return nil
}

// Options configures a new Model.
type Options struct {
	// MaxTags caps the number of tag chips, the all-chip included.
	// Zero uses project.DefaultMaxTags.
	MaxTags int
	// Tag and Query set the initial filter.
	Tag    string
	Query  string
	Theme  *Theme
	Keys   *KeyMap
	Logger *slog.Logger
}

// Model is the bubbletea model for the portfolio viewer.
type Model struct {
	catalog []project.Project
	tags    []string
	tagIdx  int
	visible []project.Project
	cursor  int

	search      textinput.Model
	focusRegion FocusRegion

	bus      *selection.KeyBus
	carousel *selection.Controller
	deferred *deferQueue
	detail   *detailPane

	keys   KeyMap
	styles styles
	help   help.Model
	logger *slog.Logger

	status string
	width  int
	height int
}

// NewModel creates a viewer over catalog. The catalog is never modified.
func NewModel(catalog []project.Project, opts Options) Model {
	maxTags := opts.MaxTags
	if maxTags == 0 {
		maxTags = project.DefaultMaxTags
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title, description, type or tag"
	search.CharLimit = 80
	search.SetValue(opts.Query)

	bus := selection.NewKeyBus()
	deferred := &deferQueue{}
	detail := &detailPane{}
	carousel := selection.NewController(selection.Options{
		Keys:      bus,
		Scheduler: deferred,
		Focus:     detail.focus,
		Logger:    logger,
	})

	tags := project.Tags(catalog, maxTags)
	tagIdx := 0
	if opts.Tag != "" && !project.IsAllTag(opts.Tag) {
		if i := slices.Index(tags, opts.Tag); i >= 0 {
			tagIdx = i
		} else {
			logger.Warn("unknown tag, showing all projects", "tag", opts.Tag)
		}
	}

	model := Model{
		catalog:  catalog,
		tags:     tags,
		tagIdx:   tagIdx,
		search:   search,
		bus:      bus,
		carousel: carousel,
		deferred: deferred,
		detail:   detail,
		keys:     keys,
		styles:   newStyles(theme),
		help:     help.New(),
		logger:   logger,
	}
	model.applyFilter()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		model.detail.mounted = true
		return model, nil

	case deferredMsg:
		model.deferred.drain()
		return model, nil

	case tea.KeyMsg:
		model.status = ""
		switch model.focusRegion {
		case FocusSearch:
			return model.handleSearchKeys(message)
		case FocusDetail:
			return model.handleDetailKeys(message)
		default:
			return model.handleListKeys(message)
		}
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		model.carousel.Teardown()
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.visible)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.NextTag):
		model.tagIdx = (model.tagIdx + 1) % len(model.tags)
		model.applyFilter()

	case key.Matches(message, model.keys.PrevTag):
		model.tagIdx = (model.tagIdx - 1 + len(model.tags)) % len(model.tags)
		model.applyFilter()

	case key.Matches(message, model.keys.Search):
		model.focusRegion = FocusSearch
		return model, model.search.Focus()

	case key.Matches(message, model.keys.Open):
		return model.openCursor()
	}
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	// Printable quit keys such as q are search text; only control keys quit.
	case message.Type != tea.KeyRunes && key.Matches(message, model.keys.Quit):
		model.carousel.Teardown()
		return model, tea.Quit

	case key.Matches(message, model.keys.SearchAccept):
		model.search.Blur()
		model.focusRegion = FocusList
		return model, nil

	case key.Matches(message, model.keys.SearchClear):
		model.search.SetValue("")
		model.search.Blur()
		model.focusRegion = FocusList
		model.applyFilter()
		return model, nil
	}

	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	model.applyFilter()
	return model, cmd
}

func (model Model) handleDetailKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) {
		model.carousel.Teardown()
		return model, tea.Quit
	}

	if index, ok := model.keys.jumpIndex(message); ok {
		if err := model.carousel.JumpTo(index); err != nil {
			model.status = fmt.Sprintf("no image %d", index+1)
		}
		return model, nil
	}

	if selectionKey, ok := model.keys.selectionKey(message); ok {
		model.bus.Dispatch(selectionKey)
	}
	if !model.carousel.Selected() {
		model.focusRegion = FocusList
		model.detail.focused = false
	}
	return model, nil
}

func (model Model) openCursor() (tea.Model, tea.Cmd) {
	if model.cursor < 0 || model.cursor >= len(model.visible) {
		return model, nil
	}
	p := model.visible[model.cursor]
	if err := model.carousel.Open(&p); err != nil {
		model.status = err.Error()
		model.logger.Debug("open failed", "project", p.ID, "error", err)
		return model, nil
	}
	model.focusRegion = FocusDetail
	return model, func() tea.Msg { return deferredMsg{} }
}

// applyFilter recomputes the visible list and keeps the cursor in range.
func (model *Model) applyFilter() {
	model.visible = project.Filter(model.catalog, model.ActiveTag(), model.search.Value())
	if model.cursor >= len(model.visible) {
		model.cursor = len(model.visible) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// ActiveTag returns the selected tag chip.
func (model Model) ActiveTag() string {
	if len(model.tags) == 0 {
		return project.AllTag
	}
	return model.tags[model.tagIdx]
}

// Tags returns the tag chips in display order.
func (model Model) Tags() []string {
	return model.tags
}

// Query returns the current search text.
func (model Model) Query() string {
	return model.search.Value()
}

// Visible returns the projects passing the current filter.
func (model Model) Visible() []project.Project {
	return model.visible
}

// Cursor returns the list cursor position.
func (model Model) Cursor() int {
	return model.cursor
}

// Focus returns the region receiving key presses.
func (model Model) Focus() FocusRegion {
	return model.focusRegion
}

// Selection returns the carousel state.
func (model Model) Selection() selection.State {
	return model.carousel.State()
}

// KeyListeners returns the number of handlers installed on the key bus.
func (model Model) KeyListeners() int {
	return model.bus.Len()
}

// DetailFocused reports whether the deferred focus transfer to the
// detail view has run.
func (model Model) DetailFocused() bool {
	return model.detail.focused
}

// Status returns the transient status line message.
func (model Model) Status() string {
	return model.status
}
