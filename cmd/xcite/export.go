package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/export"
	"github.com/matsen/xcite/internal/session"
	"github.com/matsen/xcite/internal/work"
)

var (
	exportDir    string
	exportFilter string
	exportBibTeX bool
	exportSide   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory to write a.jsonl and b.jsonl into")
	exportCmd.Flags().StringVarP(&exportFilter, "filter", "f", "all", "Works to export: all, highlighted, citing, cited, or shared")
	exportCmd.Flags().BoolVar(&exportBibTeX, "bibtex", false, "Also write a.bib and b.bib")
	exportCmd.Flags().StringVar(&exportSide, "side", "", "Export only one author: a or b (default both)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [queryA queryB]",
	Short: "Export both authors' flagged works",
	Long: `Compare two authors and write each one's works, with match flags, to JSONL.

One work per line, newest first. With --bibtex, BibTeX files keyed by
OpenAlex work id are written too; match flags become keywords.

Examples:
  xcite export --dir out/
  xcite export "Filippo Menczer" "Santo Fortunato" --filter highlighted --bibtex
  xcite export --side b --filter citing`,
	Args: noneOrTwoQueries,
	RunE: runExport,
}

// ExportResponse is the response for the export command.
type ExportResponse struct {
	SessionID string         `json:"session_id"`
	Files     []ExportedFile `json:"files"`
	Filter    work.Filter    `json:"filter"`
}

// ExportedFile is one written file.
type ExportedFile struct {
	Path  string `json:"path"`
	Works int    `json:"works"`
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := work.ParseFilter(exportFilter)
	if err != nil {
		return err
	}
	slots, err := exportSlots(exportSide)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	a := mustNewApp()
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	queryA, queryB := queryPair(args)
	s := a.newSession(0)
	defer s.Close()

	snap, err := s.Compare(ctx, queryA, queryB)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	resp := ExportResponse{SessionID: snap.SessionID, Filter: filter}
	for _, slot := range slots {
		works := worksFor(snap, slot).Filter(filter)
		name := strings.ToLower(slot.String())

		path := filepath.Join(exportDir, name+".jsonl")
		if err := export.WriteAll(path, works); err != nil {
			return err
		}
		resp.Files = append(resp.Files, ExportedFile{Path: path, Works: len(works)})

		if exportBibTeX {
			bibPath := filepath.Join(exportDir, name+".bib")
			if err := os.WriteFile(bibPath, []byte(export.ToBibTeXList(works)), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", bibPath, err)
			}
			resp.Files = append(resp.Files, ExportedFile{Path: bibPath, Works: len(works)})
		}
	}

	if humanOutput {
		for _, f := range resp.Files {
			fmt.Printf("Wrote %d works to %s\n", f.Works, f.Path)
		}
		return nil
	}
	return outputJSON(resp)
}

// exportSlots returns the slots selected by --side; empty means both.
func exportSlots(side string) ([]session.Slot, error) {
	if side == "" {
		return []session.Slot{session.SlotA, session.SlotB}, nil
	}
	slot, err := session.ParseSlot(side)
	if err != nil {
		return nil, err
	}
	return []session.Slot{slot}, nil
}
