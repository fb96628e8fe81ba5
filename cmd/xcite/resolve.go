package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/openalex"
	"github.com/matsen/xcite/internal/work"
)

var resolveSuggest bool

func init() {
	resolveCmd.Flags().BoolVar(&resolveSuggest, "suggest", false, "List all autocomplete suggestions instead of picking one")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve an author name or OpenAlex id",
	Long: `Resolve a free-text query to an OpenAlex author.

Queries that look like OpenAlex author ids (A5023888391, or the
https://openalex.org/A5023888391 URL) are looked up directly. Anything else
is sent to author autocomplete and the first suggestion wins.

Examples:
  xcite resolve "Santo Fortunato"
  xcite resolve A5023888391 --human
  xcite resolve "Menczer" --suggest`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

// ResolveResponse is the response for the resolve command.
type ResolveResponse struct {
	Query   string        `json:"query"`
	Subject *work.Subject `json:"subject"`
}

func runResolve(cmd *cobra.Command, args []string) {
	a := mustNewApp()
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	if resolveSuggest {
		hits, err := a.resolver.Suggest(ctx, args[0])
		if err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		if humanOutput {
			printSuggestionsHuman(hits)
			return
		}
		outputJSON(hits)
		return
	}

	subj, err := a.resolver.Resolve(ctx, args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("%s\n  id: %s\n  institution: %s\n", subj.DisplayName, subj.ID.ShortID(), subj.Institution)
		return
	}
	outputJSON(ResolveResponse{Query: args[0], Subject: subj})
}

func printSuggestionsHuman(hits []openalex.AuthorHit) {
	if len(hits) == 0 {
		fmt.Println("No suggestions.")
		return
	}
	for i, h := range hits {
		hint := h.Hint
		if hint == "" {
			hint = work.UnknownInstitution
		}
		fmt.Printf("%d. %s (%s)\n", i+1, h.DisplayName, work.AuthorID(h.ID).ShortID())
		fmt.Printf("   %s, %d works, %d citations\n", hint, h.WorksCount, h.CitedByCount)
	}
}
