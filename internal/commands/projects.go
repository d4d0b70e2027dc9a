package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
)

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.FromContext(cmd.Context())
			snap := st.Snapshot()
			out := cmd.OutOrStdout()

			if len(snap.Projects) == 0 {
				fmt.Fprintln(out, "No projects.")
				return nil
			}
			for _, p := range snap.Projects {
				marker := " "
				if p.ID == snap.CurrentProjectID() {
					marker = "*"
				}
				fav := ""
				if p.IsFavorite {
					fav = " ★"
				}
				n := len(projection.FilterByProject(snap.Tasks, p.ID))
				fmt.Fprintf(out, "%s %-4s %s %s%s (%d tasks)\n", marker, p.ID, p.Icon, p.Name, fav, n)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no store or log file needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
