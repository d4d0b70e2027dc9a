package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/collab"
	"github.com/tgienger/taskboard/internal/modal"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
	"github.com/tgienger/taskboard/internal/ui/views"
	"github.com/tgienger/taskboard/internal/view"
)

// presenceInterval is how often the header's presence list is refreshed
const presenceInterval = 5 * time.Second

// Options configures the application
type Options struct {
	Session       *collab.Session
	CloseDelay    time.Duration
	MarkdownStyle string
	Scheduler     modal.Scheduler
}

type storeChangedMsg struct{}

type modalClearedMsg struct{}

type presenceMsg struct {
	users []models.User
}

type presenceTickMsg struct{}

// App is the root model. It reads everything from the store in its context
// and re-projects after every change.
type App struct {
	ctx     context.Context
	store   *store.Store
	session *collab.Session
	styles  *styles.Styles
	keys    keys.KeyMap

	events      chan tea.Msg
	unsubscribe func()

	list   *views.ListView
	board  *views.BoardView
	table  *views.TableView
	docs   *views.DocumentView
	picker *views.ProjectPicker
	detail *views.TaskModal

	search     textinput.Model
	searching  bool
	pickerOpen bool
	presence   []models.User

	width  int
	height int

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewApp creates the application. It panics when ctx carries no store.
func NewApp(ctx context.Context, opts Options) *App {
	st := store.FromContext(ctx)

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100
	search.Prompt = "/ "

	a := &App{
		ctx:     ctx,
		store:   st,
		session: opts.Session,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		events:  make(chan tea.Msg, 16),
		list:    views.NewListView(st),
		board:   views.NewBoardView(st),
		table:   views.NewTableView(st),
		docs:    views.NewDocumentView(opts.MarkdownStyle),
		picker:  views.NewProjectPicker(),
		search:  search,
	}

	modalOpts := []modal.Option{modal.OnClear(a.onModalCleared)}
	if opts.CloseDelay > 0 {
		modalOpts = append(modalOpts, modal.WithDelay(opts.CloseDelay))
	}
	if opts.Scheduler != nil {
		modalOpts = append(modalOpts, modal.WithScheduler(opts.Scheduler))
	}
	a.detail = views.NewTaskModal(ctx, st, modal.New(modalOpts...), opts.Session)

	a.unsubscribe = st.Subscribe(func(store.Snapshot) {
		a.notify(storeChangedMsg{})
	})
	a.refresh()
	return a
}

// notify queues a store change without blocking the writer. One pending
// change is enough since refresh always reads the latest snapshot.
func (a *App) notify(msg tea.Msg) {
	select {
	case a.events <- msg:
	default:
	}
}

// onModalCleared runs on the timer goroutine
func (a *App) onModalCleared() {
	select {
	case a.events <- modalClearedMsg{}:
	case <-a.ctx.Done():
	}
}

func (a *App) waitForEvent() tea.Msg {
	select {
	case msg := <-a.events:
		return msg
	case <-a.ctx.Done():
		return nil
	}
}

func (a *App) fetchPresence() tea.Msg {
	if a.session == nil {
		return presenceMsg{}
	}
	return presenceMsg{users: a.session.Presence(a.ctx)}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitForEvent, a.fetchPresence)
}

// refresh re-derives every view from the latest snapshot
func (a *App) refresh() {
	snap := a.store.Snapshot()
	tasks := projection.Visible(snap, a.search.Value())

	a.list.SetTasks(tasks)
	a.board.SetTasks(tasks)
	a.table.SetTasks(tasks)
	a.docs.SetProject(snap.CurrentProject)

	counts := make(map[string]int, len(snap.Projects))
	for _, t := range snap.Tasks {
		counts[t.ProjectID]++
	}
	a.picker.SetProjects(snap.Projects, counts, snap.CurrentProjectID())

	if selected := a.detail.Task(); selected != nil {
		for _, t := range snap.Tasks {
			if t.ID == selected.ID {
				a.detail.Refresh(t)
				break
			}
		}
	}
}

func (a *App) resize() {
	bodyWidth, bodyHeight := a.bodySize()
	a.list.SetSize(bodyWidth, bodyHeight)
	a.board.SetSize(bodyWidth, bodyHeight)
	a.table.SetSize(bodyWidth, bodyHeight)
	a.docs.SetSize(bodyWidth, bodyHeight)
	a.picker.SetSize(clamp(bodyWidth, 30, 60), bodyHeight)
	a.detail.SetSize(bodyWidth, bodyHeight)
	a.search.Width = clamp(bodyWidth/3, 10, 40)
}

// bodySize is the area left of the sidebar and below the header
func (a *App) bodySize() (int, int) {
	contentWidth := styles.ContentWidth(a.width)
	width := max(contentWidth-styles.SidebarWidth-2, 20)
	height := max(a.height-5, 5)
	return width, height
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case storeChangedMsg:
		a.refresh()
		return a, a.waitForEvent

	case modalClearedMsg:
		a.detail.Cleared()
		return a, a.waitForEvent

	case presenceMsg:
		a.presence = msg.users
		return a, tea.Tick(presenceInterval, func(time.Time) tea.Msg { return presenceTickMsg{} })

	case presenceTickMsg:
		return a, a.fetchPresence

	case views.OpenTask:
		a.pickerOpen = false
		return a, a.detail.Open(msg.Task)

	case views.CloseTask:
		a.detail.Close()
		return a, nil

	case views.SelectedProject:
		return a, a.selectProject(msg.Project)

	case views.PickerClosed:
		a.pickerOpen = false
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// thread loads and posted comments
	return a, a.detail.Update(msg)
}

func (a *App) selectProject(p models.Project) tea.Cmd {
	a.pickerOpen = false
	if a.detail.IsOpen() {
		a.detail.Close()
	}
	if err := a.store.SetCurrentProject(p); err != nil {
		log.Warn().Err(err).Str("project", p.ID).Msg("project switch rejected")
		return nil
	}
	if a.session != nil {
		a.session.Rebind(a.ctx, p.ID)
	}
	log.Info().Str("project", p.ID).Msg("project selected")
	return a.fetchPresence
}

func (a *App) setView(v view.Type) {
	if err := a.store.SetCurrentView(v); err != nil {
		log.Warn().Err(err).Msg("view change rejected")
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Handle help popup first - any key closes it
	if a.showHelpPopup {
		a.showHelpPopup = false
		return nil
	}

	if a.detail.IsOpen() {
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return a.detail.Update(msg)
	}

	if a.pickerOpen {
		return a.picker.Update(msg)
	}

	if a.searching {
		return a.updateSearch(msg)
	}

	// the board owns esc and arrows while a card is held
	if a.store.CurrentView() == view.Board && a.board.Dragging() {
		return a.board.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelpPopup = true
		return nil
	case key.Matches(msg, a.keys.ListView):
		a.setView(view.List)
		return nil
	case key.Matches(msg, a.keys.BoardView):
		a.setView(view.Board)
		return nil
	case key.Matches(msg, a.keys.TableView):
		a.setView(view.Table)
		return nil
	case key.Matches(msg, a.keys.DocumentView):
		a.setView(view.Document)
		return nil
	case key.Matches(msg, a.keys.NextView):
		a.setView(a.store.CurrentView().Next())
		return nil
	case key.Matches(msg, a.keys.PrevView):
		a.setView(a.store.CurrentView().Prev())
		return nil
	case key.Matches(msg, a.keys.Search):
		a.searching = true
		return a.search.Focus()
	case key.Matches(msg, a.keys.Projects):
		a.pickerOpen = true
		a.picker.Focus()
		return nil
	case key.Matches(msg, a.keys.Back):
		if a.search.Value() != "" {
			a.search.Reset()
			a.refresh()
		}
		return nil
	}

	return view.Dispatch[tea.Cmd](a.store.CurrentView(), keyRouter{a: a, msg: msg})
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.search.Reset()
		a.search.Blur()
		a.searching = false
		a.refresh()
		return nil
	case key.Matches(msg, a.keys.Enter):
		a.search.Blur()
		a.searching = false
		return nil
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != before {
		a.refresh()
	}
	return cmd
}

// keyRouter sends a key to the active view
type keyRouter struct {
	a   *App
	msg tea.KeyMsg
}

func (r keyRouter) List() tea.Cmd     { return r.a.list.Update(r.msg) }
func (r keyRouter) Board() tea.Cmd    { return r.a.board.Update(r.msg) }
func (r keyRouter) Table() tea.Cmd    { return r.a.table.Update(r.msg) }
func (r keyRouter) Document() tea.Cmd { return r.a.docs.Update(r.msg) }

// bodyRenderer draws the active view
type bodyRenderer struct {
	a *App
}

func (r bodyRenderer) List() string     { return r.a.list.View() }
func (r bodyRenderer) Board() string    { return r.a.board.View() }
func (r bodyRenderer) Table() string    { return r.a.table.View() }
func (r bodyRenderer) Document() string { return r.a.docs.View() }

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.showHelpPopup {
		return a.renderHelpPopup()
	}

	bodyWidth, bodyHeight := a.bodySize()
	var body string
	switch {
	case a.detail.IsOpen():
		body = lipgloss.Place(bodyWidth, bodyHeight, lipgloss.Center, lipgloss.Top, a.detail.View())
	case a.pickerOpen:
		body = lipgloss.Place(bodyWidth, bodyHeight, lipgloss.Center, lipgloss.Top, a.picker.View())
	default:
		body = view.Dispatch[string](a.store.CurrentView(), bodyRenderer{a: a})
	}

	main := lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(bodyWidth), body)
	content := lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(), main)
	content = lipgloss.JoinVertical(lipgloss.Left, content, a.renderHelp())
	return styles.CenterView(content, a.width, a.height)
}

func (a *App) renderSidebar() string {
	s := a.styles
	snap := a.store.Snapshot()

	lines := []string{s.Title.Render("Views"), ""}
	for i, v := range view.All() {
		label := fmt.Sprintf("%d %s", i+1, v.Short())
		if v == snap.CurrentView {
			lines = append(lines, s.SidebarActive.Render("▸ "+label))
		} else {
			lines = append(lines, s.SidebarItem.Render("  "+label))
		}
	}

	lines = append(lines, "", s.Title.Render("Projects"), "")
	current := snap.CurrentProjectID()
	for _, p := range snap.Projects {
		label := styles.Truncate(p.Icon+" "+p.Name, styles.SidebarWidth-6)
		if p.IsFavorite {
			label += " ★"
		}
		if p.ID == current {
			lines = append(lines, s.SidebarActive.Render("▸ "+label))
		} else {
			lines = append(lines, s.SidebarItem.Render("  "+label))
		}
	}

	_, bodyHeight := a.bodySize()
	return s.Sidebar.Height(bodyHeight + 3).Render(strings.Join(lines, "\n"))
}

func (a *App) renderHeader(width int) string {
	s := a.styles
	snap := a.store.Snapshot()

	title := s.TitleMuted.Render("No project")
	if p := snap.CurrentProject; p != nil {
		title = s.Title.Render(p.Icon + " " + p.Name)
	}
	badge := s.ButtonPrimary.Render(snap.CurrentView.Label())

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)
	right := a.renderPresence()

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	top := left + strings.Repeat(" ", gap) + right

	searchStyle := s.Input
	if a.searching {
		searchStyle = s.InputFocused
	}
	var search string
	if a.searching || a.search.Value() != "" {
		search = searchStyle.Render(a.search.View())
	} else {
		search = s.TitleMuted.Render("/ search")
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, search)
}

func (a *App) renderPresence() string {
	s := a.styles
	if len(a.presence) == 0 {
		return ""
	}

	shown, rest := collab.Stack(a.presence, collab.DefaultStackSize)
	avatars := make([]string, 0, len(shown)+1)
	for _, u := range shown {
		style := lipgloss.NewStyle().Bold(true)
		if u.Color != "" {
			style = style.Foreground(lipgloss.Color(u.Color))
		}
		avatars = append(avatars, style.Render(u.Initial()))
	}
	if rest > 0 {
		avatars = append(avatars, s.TitleMuted.Render(fmt.Sprintf("+%d", rest)))
	}

	parts := []string{strings.Join(avatars, " ")}
	if n := collab.ActiveCount(a.presence); n > 0 {
		parts = append(parts, s.TitleMuted.Render(fmt.Sprintf("%d active", n)))
	}
	if summary := collab.Summary(a.presence); summary != "" {
		parts = append(parts, s.TitleMuted.Render(summary))
	}
	return strings.Join(parts, "  ")
}

func (a *App) renderHelp() string {
	contentWidth := styles.ContentWidth(a.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return a.styles.Help.Render(a.styles.HelpKey.Render("?") + " help")
	}
	return a.styles.Help.Render(
		fmt.Sprintf("%s open • %s views • %s search • %s projects • %s status • %s priority • %s help • %s quit",
			a.styles.HelpKey.Render("↵"),
			a.styles.HelpKey.Render("1-4"),
			a.styles.HelpKey.Render("/"),
			a.styles.HelpKey.Render("o"),
			a.styles.HelpKey.Render("s"),
			a.styles.HelpKey.Render("p"),
			a.styles.HelpKey.Render("?"),
			a.styles.HelpKey.Render("q"),
		),
	)
}

func (a *App) renderHelpPopup() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	helpItems := []string{
		s.HelpKey.Render("1-4") + "    list, board, table, docs",
		s.HelpKey.Render("tab") + "    next view",
		s.HelpKey.Render("↵") + "      open task",
		s.HelpKey.Render("s/S") + "    cycle status",
		s.HelpKey.Render("p/P") + "    cycle priority",
		s.HelpKey.Render("z") + "      fold group (list)",
		s.HelpKey.Render("m") + "      grab and drop card (board)",
		s.HelpKey.Render("T/D/]") + "  sort title, due, next column (table)",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("o") + "      switch project",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, a.width, a.height)
}

// Close detaches the app from the store
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
