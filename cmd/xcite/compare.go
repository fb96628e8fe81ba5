package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/session"
	"github.com/matsen/xcite/internal/timeline"
	"github.com/matsen/xcite/internal/work"
)

var (
	compareFilter string
	compareSeries bool
)

func init() {
	compareCmd.Flags().StringVarP(&compareFilter, "filter", "f", "all", "Works to list: all, highlighted, citing, cited, or shared")
	compareCmd.Flags().BoolVar(&compareSeries, "series", false, "Include the per-year trend and relation series")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare [queryA queryB]",
	Short: "Compare two authors' works",
	Long: `Compare the works of two authors.

Both authors are fetched concurrently, then every work is flagged:
  S  shared: co-authored by both
  C  citing: cites at least one work of the other author
  R  cited:  referenced by at least one work of the other author

Without arguments the default pair (` + DefaultQueryA + `, ` + DefaultQueryB + `) is used.

Examples:
  xcite compare "Filippo Menczer" "Santo Fortunato" --human
  xcite compare A5023888391 A5058264734 --filter citing
  xcite compare --series`,
	Args: noneOrTwoQueries,
	Run:  runCompare,
}

// SideResponse is one subject in compare output.
type SideResponse struct {
	Query   string             `json:"query"`
	Status  session.Status     `json:"status"`
	Subject *work.Subject      `json:"subject,omitempty"`
	Build   collect.BuildStats `json:"build"`
	Match   *work.MatchStats   `json:"match,omitempty"`
	Works   []WorkResult       `json:"works"`
	Error   string             `json:"error,omitempty"`
}

// CompareResponse is the response for the compare command.
type CompareResponse struct {
	SessionID string           `json:"session_id"`
	Filter    work.Filter      `json:"filter"`
	A         SideResponse     `json:"a"`
	B         SideResponse     `json:"b"`
	Shared    int              `json:"shared"`
	Series    *timeline.Series `json:"series,omitempty"`
}

func runCompare(cmd *cobra.Command, args []string) {
	filter, err := work.ParseFilter(compareFilter)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	a := mustNewApp()
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	queryA, queryB := queryPair(args)
	s := a.newSession(0)
	defer s.Close()

	snap, cmpErr := s.Compare(ctx, queryA, queryB)
	if snap == nil {
		exitWithError(exitCodeFor(cmpErr), "%v", cmpErr)
	}

	resp := buildCompareResponse(snap, filter, compareSeries)
	if humanOutput {
		printCompareHuman(resp, snap, filter)
	} else {
		outputJSON(resp)
	}

	if cmpErr != nil {
		log.Sync()
		if humanOutput {
			exitWithError(exitCodeFor(cmpErr), "%v", cmpErr)
		}
		osExit(exitCodeFor(cmpErr))
	}
}

// buildCompareResponse flattens a snapshot into command output. Without a
// comparison (one side missing or empty) the raw collections are listed
// unflagged.
func buildCompareResponse(snap *session.Snapshot, filter work.Filter, withSeries bool) CompareResponse {
	resp := CompareResponse{
		SessionID: snap.SessionID,
		Filter:    filter,
		A:         sideResponse(snap.A),
		B:         sideResponse(snap.B),
	}

	c := snap.Comparison
	if c == nil {
		resp.A.Works = toWorkResults(snap.A.Works.Filter(filter))
		resp.B.Works = toWorkResults(snap.B.Works.Filter(filter))
		return resp
	}

	statsA, statsB := c.Match.StatsA, c.Match.StatsB
	resp.A.Match = &statsA
	resp.B.Match = &statsB
	resp.A.Works = toWorkResults(c.Match.A.Filter(filter))
	resp.B.Works = toWorkResults(c.Match.B.Filter(filter))
	resp.Shared = c.SharedCount()
	if withSeries {
		resp.Series = c.Series
	}
	return resp
}

func sideResponse(v session.SlotView) SideResponse {
	return SideResponse{
		Query:   v.Query,
		Status:  v.Status,
		Subject: v.Subject,
		Build:   v.Stats,
		Error:   v.Error,
	}
}

func printCompareHuman(resp CompareResponse, snap *session.Snapshot, filter work.Filter) {
	for _, side := range []struct {
		label string
		resp  SideResponse
		works *work.Collection
	}{
		{"A", resp.A, worksFor(snap, session.SlotA)},
		{"B", resp.B, worksFor(snap, session.SlotB)},
	} {
		if side.resp.Subject == nil {
			fmt.Printf("[%s] %q: %s\n\n", side.label, side.resp.Query, side.resp.Status)
			continue
		}
		fmt.Printf("[%s] %s (%s)\n", side.label, side.resp.Subject.DisplayName, side.resp.Subject.Institution)
		fmt.Printf("    %s\n", formatBuildStats(side.resp.Build))
		if m := side.resp.Match; m != nil {
			fmt.Printf("    citing %d, cited by %d, shared %d\n", m.Citing, m.CitedBy, m.Shared)
		}
		fmt.Println()
		printWorksHuman(side.works.Filter(filter))
		fmt.Println()
	}

	if resp.Series != nil && !resp.Series.IsEmpty() {
		fmt.Println("Year    A    B  shared  citing  cited")
		for i, tp := range resp.Series.Trend {
			rp := resp.Series.Relations[i]
			fmt.Printf("%d %4d %4d  %6d  %6d  %5d\n", tp.Year, tp.A, tp.B, tp.Shared, rp.Citing, rp.CitedBy)
		}
	}
}

// worksFor returns the flagged collection when a comparison exists, the raw
// one otherwise.
func worksFor(snap *session.Snapshot, slot session.Slot) *work.Collection {
	if c := snap.Comparison; c != nil {
		if slot == session.SlotB {
			return c.Match.B
		}
		return c.Match.A
	}
	return snap.Slot(slot).Works
}
