package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/export"
	"github.com/matsen/xcite/internal/match"
	"github.com/matsen/xcite/internal/timeline"
	"github.com/matsen/xcite/internal/work"
)

var (
	matchFilter string
	matchSeries bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchFilter, "filter", "f", "all", "Works to list: all, highlighted, citing, cited, or shared")
	matchCmd.Flags().BoolVar(&matchSeries, "series", false, "Include the per-year trend and relation series")
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <a.jsonl> <b.jsonl>",
	Short: "Re-match two exported collections offline",
	Long: `Match two JSONL collections written by "xcite export" without contacting OpenAlex.

Existing flags in the files are ignored; every work is flagged afresh from
its references.

Examples:
  xcite export --dir out/
  xcite match out/a.jsonl out/b.jsonl --filter citing --human`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

// MatchResponse is the response for the match command.
type MatchResponse struct {
	Filter work.Filter      `json:"filter"`
	A      MatchSide        `json:"a"`
	B      MatchSide        `json:"b"`
	Series *timeline.Series `json:"series,omitempty"`
}

// MatchSide is one collection in match output.
type MatchSide struct {
	Path  string          `json:"path"`
	Match work.MatchStats `json:"match"`
	Works []WorkResult    `json:"works"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	filter, err := work.ParseFilter(matchFilter)
	if err != nil {
		return err
	}

	a, err := export.ReadCollection(args[0])
	if err != nil {
		return err
	}
	b, err := export.ReadCollection(args[1])
	if err != nil {
		return err
	}

	resp := buildMatchResponse(args[0], args[1], a, b, filter, matchSeries)
	if !humanOutput {
		return outputJSON(resp)
	}

	for _, side := range []MatchSide{resp.A, resp.B} {
		m := side.Match
		fmt.Printf("%s: %d works, citing %d, cited by %d, shared %d\n", side.Path, m.Total, m.Citing, m.CitedBy, m.Shared)
	}
	fmt.Println()
	r := match.Run(a, b)
	fmt.Println("[A]")
	printWorksHuman(r.A.Filter(filter))
	fmt.Println("\n[B]")
	printWorksHuman(r.B.Filter(filter))
	return nil
}

func buildMatchResponse(pathA, pathB string, a, b *work.Collection, filter work.Filter, withSeries bool) MatchResponse {
	r := match.Run(a, b)
	resp := MatchResponse{
		Filter: filter,
		A:      MatchSide{Path: pathA, Match: r.StatsA, Works: toWorkResults(r.A.Filter(filter))},
		B:      MatchSide{Path: pathB, Match: r.StatsB, Works: toWorkResults(r.B.Filter(filter))},
	}
	if withSeries {
		resp.Series = timeline.Build(r.A, r.B)
	}
	return resp
}
