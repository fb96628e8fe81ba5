package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/session"
	"github.com/matsen/xcite/internal/viz"
)

var (
	graphOutput string
	graphLayout string
	graphTopK   int
	graphJSON   bool
)

func init() {
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	graphCmd.Flags().StringVar(&graphLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	graphCmd.Flags().IntVarP(&graphTopK, "top-k", "k", 0, "Collaborators per author (default from config)")
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Emit Cytoscape.js elements JSON instead of HTML")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph [queryA queryB]",
	Short: "Generate the collaborator graph of two authors",
	Long: `Generate an interactive HTML visualization of two authors' collaborators.

The two authors are the large nodes. Each one's most frequent collaborators
are linked to them with edges weighted by how often they co-authored; people
who collaborated with both are drawn once, in the shared color. A dashed edge
joins the two authors when they have works in common.

Examples:
  # Default pair to a file
  xcite graph -o graph.html

  # Circular layout, 10 collaborators each
  xcite graph "Filippo Menczer" "Santo Fortunato" --layout circle -k 10 -o graph.html

  # Raw elements for another Cytoscape.js front end
  xcite graph --json > elements.json`,
	Args: noneOrTwoQueries,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	if !graphJSON {
		if err := viz.ValidateLayout(graphLayout); err != nil {
			return err
		}
	}

	a := mustNewApp()
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	queryA, queryB := queryPair(args)
	s := a.newSession(graphTopK)
	defer s.Close()

	snap, err := s.Compare(ctx, queryA, queryB)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	if snap.Comparison == nil {
		for _, v := range []session.SlotView{snap.A, snap.B} {
			if !v.HasWorks() {
				exitWithError(ExitError, "no graph: author %s (%q) has no works", v.Slot, v.Query)
			}
		}
		exitWithError(ExitError, "no graph: comparison unavailable")
	}
	graph := snap.Comparison.Graph

	var out string
	if graphJSON {
		out, err = graph.ToCytoscapeJSON()
		if err != nil {
			return err
		}
		out += "\n"
	} else {
		title := fmt.Sprintf("%s vs %s", snap.A.Subject.DisplayName, snap.B.Subject.DisplayName)
		out, err = viz.GenerateHTML(graph, viz.HTMLOptions{Layout: graphLayout, Title: title})
		if err != nil {
			return fmt.Errorf("generating HTML: %w", err)
		}
	}

	if graphOutput == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(graphOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		fmt.Printf("Graph written to %s (%d authors, %d collaborators, %d edges)\n",
			graphOutput, graph.SubjectNodes(), len(graph.Nodes)-graph.SubjectNodes(), len(graph.Edges))
	} else {
		outputJSON(StatusResponse{Status: "written", Path: graphOutput, Count: int64(len(graph.Nodes))})
	}
	return nil
}
