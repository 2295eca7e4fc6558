package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unklstewy/vatsim-online/internal/display"
	"github.com/unklstewy/vatsim-online/internal/monitor"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [AIRPORT]",
		Short: "Print one refresh of the pilot table and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, loc, err := a.prepare(cmd.Context(), args)
			if err != nil {
				return err
			}

			board, err := engine.Refresh(cmd.Context(), monitor.Board{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.Title(loc.Identifier, a.cfg.Monitor.ViewDistanceNM))
			fmt.Fprintln(out, "Last updated:", display.LastUpdated(board.UpdatedAt))
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(display.Headers, "\t"))
			for _, r := range board.Rows {
				fmt.Fprintln(w, strings.Join(display.Row(r), "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(board.Rows) == 0 {
				fmt.Fprintln(out, "No pilots in range.")
			}
			if status := display.Status(board); status != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), status)
			}
			return nil
		},
	}
}
