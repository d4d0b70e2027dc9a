package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskboard/internal/document"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/view"
)

func newLsCmd(a *app) *cobra.Command {
	var (
		project string
		sortBy  string
		desc    bool
		search  string
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the current view of a project",
		Long: `Print a project's tasks the way the selected view shows them: grouped by
status (list), as columns (board), as a sortable table, or the project document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.FromContext(cmd.Context())
			if project != "" {
				p, err := findProject(st.Projects(), project)
				if err != nil {
					return err
				}
				if err := st.SetCurrentProject(p); err != nil {
					return err
				}
			}

			var state projection.SortState
			if sortBy != "" {
				col, err := projection.ParseColumn(sortBy)
				if err != nil {
					return err
				}
				state = projection.SortState{Column: col, Desc: desc}
			}

			snap := st.Snapshot()
			if snap.CurrentProject == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects.")
				return nil
			}
			tasks := projection.Visible(snap, search)
			out := cmd.OutOrStdout()
			return view.Dispatch[error](snap.CurrentView, printer{
				w:       out,
				project: *snap.CurrentProject,
				tasks:   tasks,
				sort:    state,
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id or name (default: first project)")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort column: title, status, priority, assignee, due")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Fuzzy filter on title, description and tags")
	return cmd
}

// findProject matches an id exactly or a name case-insensitively
func findProject(projects []models.Project, ref string) (models.Project, error) {
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("%w: %s", store.ErrProjectNotFound, ref)
}

// printer renders one projection per view for plain terminal output
type printer struct {
	w       io.Writer
	project models.Project
	tasks   []models.Task
	sort    projection.SortState
}

func (p printer) header() {
	fmt.Fprintf(p.w, "%s %s\n\n", p.project.Icon, p.project.Name)
}

func (p printer) List() error {
	p.header()
	for _, g := range projection.GroupByStatus(projection.Sort(p.tasks, p.sort)) {
		fmt.Fprintf(p.w, "%s (%d)\n", g.Status.Label(), len(g.Tasks))
		if len(g.Tasks) == 0 {
			fmt.Fprintln(p.w, "  No tasks in this status")
		}
		for _, t := range g.Tasks {
			fmt.Fprintf(p.w, "  %s\n", taskLine(t))
		}
		fmt.Fprintln(p.w)
	}
	return nil
}

func (p printer) Board() error {
	p.header()
	groups := projection.GroupByStatus(projection.Sort(p.tasks, p.sort))

	headers := make([]string, len(groups))
	rows := 0
	for i, g := range groups {
		headers[i] = fmt.Sprintf("%s (%d)", g.Status.Label(), len(g.Tasks))
		rows = max(rows, len(g.Tasks))
	}
	tbl := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for r := range rows {
		row := make([]string, len(groups))
		for i, g := range groups {
			if r < len(g.Tasks) {
				row[i] = truncate(g.Tasks[r].Title, 28)
			}
		}
		tbl.Row(row...)
	}
	fmt.Fprintln(p.w, tbl.Render())
	return nil
}

func (p printer) Table() error {
	p.header()
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columnHeaders(p.sort)...)
	for _, t := range projection.Sort(p.tasks, p.sort) {
		tbl.Row(tableRow(t)...)
	}
	fmt.Fprintln(p.w, tbl.Render())
	return nil
}

func (p printer) Document() error {
	fmt.Fprint(p.w, document.Markdown(document.Template(p.project.Name)))
	return nil
}
