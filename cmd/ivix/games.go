package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ivix-ratings/internal/domain"
)

var gamesCmd = &cobra.Command{
	Use:   "games [term]",
	Short: "List stored games, optionally filtered by title or genre",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		return printGames(cmd.OutOrStdout(), a.controller.ListGames(cmd.Context(), term))
	},
}

func printGames(out io.Writer, games []domain.Game) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tGENRE\tRATING\tREVIEWS\tPLATFORMS")
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
			g.ID, g.Title, g.Genre, g.Rating, g.ReviewCount, strings.Join(g.Platforms, ", "))
	}
	return w.Flush()
}
