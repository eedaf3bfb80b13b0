// Command sessionreport inspects exported simulator sessions: lists runs and
// prints the diffed scorecard for one of them.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dreamypudu/prototipo-6/internal/export"
	"github.com/dreamypudu/prototipo-6/internal/scoring"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:   "sessionreport",
		Short: "Inspect exported management-simulator sessions",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "data/sessions.db", "path to the session export database")

	root.AddCommand(listCmd(), showCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*export.Store, error) {
	st, err := export.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	return st, nil
}

func listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exported sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.ListSessions(limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(rows) == 0 {
				fmt.Println("no sessions exported yet")
				return nil
			}

			bold := color.New(color.Bold)
			for _, r := range rows {
				age := r.CreatedAt
				if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
					age = humanize.Time(t)
				}
				bold.Printf("%s", r.SessionID)
				fmt.Printf("  player=%s status=%s day=%d  (%s)\n",
					r.PlayerName, statusColored(r.Status), r.FinalDay, age)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the decision log and scorecard for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sess, err := st.Session(args[0])
			if err != nil {
				return fmt.Errorf("load session %s: %w", args[0], err)
			}

			bold := color.New(color.Bold)
			bold.Printf("Session %s\n", sess.SessionID)
			fmt.Printf("  player: %s\n  status: %s\n  final day: %d\n\n",
				sess.PlayerName, statusColored(sess.Status), sess.FinalDay)

			decisions, err := st.Decisions(sess.SessionID)
			if err != nil {
				return fmt.Errorf("load decisions: %w", err)
			}
			bold.Printf("Decisions (%s)\n", humanize.Comma(int64(len(decisions))))
			for _, d := range decisions {
				fmt.Printf("  day %d %-10s [%s] %s: %q\n",
					d.Day, d.TimeSlot, d.Stakeholder, d.NodeID, d.OptionText)
			}
			fmt.Println()

			comparisons, err := st.Comparisons(sess.SessionID)
			if err != nil {
				return fmt.Errorf("load comparisons: %w", err)
			}
			bold.Printf("Scorecard (%s comparisons)\n", humanize.Comma(int64(len(comparisons))))
			matched, mismatched, notDone := 0, 0, 0
			for _, c := range comparisons {
				switch scoring.Outcome(c.Outcome) {
				case scoring.OutcomeMatched:
					matched++
				case scoring.OutcomeMismatched:
					mismatched++
				case scoring.OutcomeNotDone:
					notDone++
				}
				fmt.Printf("  %s  %-18s target=%-20s from %s/%s",
					outcomeColored(c.Outcome), c.ActionType, c.TargetRef,
					c.SourceNodeID, c.SourceOptionID)
				if c.Deviation != "" && c.Deviation != "null" {
					fmt.Printf("  deviation=%s", c.Deviation)
				}
				fmt.Println()
			}
			fmt.Printf("\n  matched=%d mismatched=%d not_done=%d\n", matched, mismatched, notDone)
			return nil
		},
	}
}

func statusColored(status string) string {
	if status == "won" {
		return color.GreenString(status)
	}
	return color.YellowString(status)
}

func outcomeColored(outcome string) string {
	switch scoring.Outcome(outcome) {
	case scoring.OutcomeMatched:
		return color.GreenString("%-10s", outcome)
	case scoring.OutcomeMismatched:
		return color.RedString("%-10s", outcome)
	default:
		return color.YellowString("%-10s", outcome)
	}
}
