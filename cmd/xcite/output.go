package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/work"
)

// Constants for output formatting.
const (
	ListTitleMaxLen  = 70 // Used in work lists
	VenueMaxLen      = 30
	CollaboratorsMax = 10 // Collaborators shown by the works command
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// osExit is swapped out in tests.
var osExit = os.Exit

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	log.Sync()
	osExit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int64  `json:"count,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// WorkResult is a work as shown in command output.
type WorkResult struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Year  *int            `json:"year"`
	Venue string          `json:"venue"`
	Link  string          `json:"link,omitempty"`
	Flags work.MatchFlags `json:"flags"`
}

func toWorkResults(works []work.Work) []WorkResult {
	out := make([]WorkResult, 0, len(works))
	for _, w := range works {
		out = append(out, WorkResult{
			ID:    w.ID.ShortID(),
			Title: w.Title,
			Year:  w.Year,
			Venue: w.Venue,
			Link:  w.Link,
			Flags: w.Flags,
		})
	}
	return out
}

// printWorksHuman prints one line per work with its match markers.
func printWorksHuman(works []work.Work) {
	for _, w := range works {
		year := "----"
		if w.Year != nil {
			year = fmt.Sprintf("%d", *w.Year)
		}
		fmt.Printf("  %s %s  %-*s  %s\n",
			flagMarkers(w.Flags),
			year,
			ListTitleMaxLen,
			truncateString(w.Title, ListTitleMaxLen),
			truncateString(w.Venue, VenueMaxLen),
		)
	}
}

// flagMarkers renders flags as a fixed-width "SCR" column: S shared,
// C citing the other subject, R cited by (referenced by) the other subject.
func flagMarkers(f work.MatchFlags) string {
	m := []byte("...")
	if f.Shared {
		m[0] = 'S'
	}
	if f.Citing {
		m[1] = 'C'
	}
	if f.CitedBy {
		m[2] = 'R'
	}
	return string(m)
}

func formatBuildStats(s collect.BuildStats) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d works from %d pages", s.Accepted, s.Pages))
	if s.Duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicates", s.Duplicates))
	}
	if s.Malformed > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed", s.Malformed))
	}
	return strings.Join(parts, ", ")
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatBytes formats bytes in a human-readable way.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
