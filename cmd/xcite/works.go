package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/work"
)

var (
	worksLimit int
	worksIDs   bool
)

func init() {
	worksCmd.Flags().IntVarP(&worksLimit, "limit", "n", 0, "Show at most this many works (0 = all)")
	worksCmd.Flags().BoolVar(&worksIDs, "ids", false, "Print only work ids, one per line")
	rootCmd.AddCommand(worksCmd)
}

var worksCmd = &cobra.Command{
	Use:   "works <query>",
	Short: "Fetch one author's works and collaborators",
	Long: `Fetch every work of one author, newest first, with their top collaborators.

Pages are fetched one at a time from OpenAlex and cached locally.

Examples:
  xcite works "Filippo Menczer" --human
  xcite works A5023888391 -n 20
  xcite works "Santo Fortunato" --ids > fortunato.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runWorks,
}

// WorksResponse is the response for the works command.
type WorksResponse struct {
	Subject       *work.Subject       `json:"subject"`
	Stats         collect.BuildStats  `json:"stats"`
	Works         []WorkResult        `json:"works"`
	Collaborators []work.Collaborator `json:"collaborators"`
	Error         string              `json:"error,omitempty"`
}

func runWorks(cmd *cobra.Command, args []string) {
	a := mustNewApp()
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	subj, err := a.resolver.Resolve(ctx, args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	res, buildErr := a.builder.Build(ctx, subj.ID)

	works := res.Works.Works()
	if worksLimit > 0 && len(works) > worksLimit {
		works = works[:worksLimit]
	}
	collaborators := res.Collaborators.Top(CollaboratorsMax)

	if worksIDs {
		for _, id := range limitIDs(res.Works.IDs(), worksLimit) {
			fmt.Println(id.ShortID())
		}
	} else if humanOutput {
		outputHuman("%s (%s)\n%s\n\n", subj.DisplayName, subj.Institution, formatBuildStats(res.Stats))
		printWorksHuman(works)
		if len(collaborators) > 0 {
			fmt.Println("\nTop collaborators:")
			for _, c := range collaborators {
				fmt.Printf("  %3d  %s (%s)\n", c.Count, c.Name, c.Institution)
			}
		}
	} else {
		resp := WorksResponse{
			Subject:       subj,
			Stats:         res.Stats,
			Works:         toWorkResults(works),
			Collaborators: collaborators,
		}
		if buildErr != nil {
			resp.Error = buildErr.Error()
		}
		outputJSON(resp)
	}

	if buildErr != nil {
		if humanOutput {
			exitWithError(exitCodeFor(buildErr), "%v", buildErr)
		}
		log.Sync()
		osExit(exitCodeFor(buildErr))
	}
}

// limitIDs returns at most n ids; n <= 0 means all.
func limitIDs(ids []work.WorkID, n int) []work.WorkID {
	if n > 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}
