package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the UI reacts to
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
	Help  key.Binding

	// views
	ListView     key.Binding
	BoardView    key.Binding
	TableView    key.Binding
	DocumentView key.Binding
	NextView     key.Binding
	PrevView     key.Binding

	Search   key.Binding
	Projects key.Binding

	// task changes
	Status       key.Binding
	StatusBack   key.Binding
	Priority     key.Binding
	PriorityBack key.Binding

	// list
	Collapse key.Binding

	// board
	Grab key.Binding

	// table
	SortTitle key.Binding
	SortDue   key.Binding
	SortNext  key.Binding

	// task modal
	Comment key.Binding
	Reply   key.Binding
	Submit  key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ListView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "list"),
		),
		BoardView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "board"),
		),
		TableView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "table"),
		),
		DocumentView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "docs"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Projects: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "projects"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		StatusBack: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "status back"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		PriorityBack: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "priority down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys(" ", "z"),
			key.WithHelp("z", "fold"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("m", "grab/drop"),
		),
		SortTitle: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "sort title"),
		),
		SortDue: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "sort due"),
		),
		SortNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "sort column"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
	}
}
