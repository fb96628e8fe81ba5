package export

import (
	"fmt"
	"strings"

	"github.com/matsen/xcite/internal/work"
)

// ToBibTeX converts a work to a BibTeX entry keyed by its short OpenAlex id.
// Match flags are recorded as keywords.
func ToBibTeX(w work.Work) string {
	entryType := determineEntryType(w.Venue)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, w.ID.ShortID()))

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(w.Title)))

	if w.Venue != "" && w.Venue != work.UnknownVenue {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(w.Venue)))
	}

	if w.Year != nil {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", *w.Year))
	}

	if w.Link != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", w.Link))
	}

	if kw := flagKeywords(w.Flags); kw != "" {
		b.WriteString(fmt.Sprintf("  keywords = {%s},\n", kw))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple works to BibTeX format.
func ToBibTeXList(works []work.Work) string {
	var entries []string
	for _, w := range works {
		entries = append(entries, ToBibTeX(w))
	}
	return strings.Join(entries, "\n")
}

// determineEntryType returns the BibTeX entry type for a venue.
func determineEntryType(venue string) string {
	v := strings.ToLower(venue)

	if strings.Contains(v, "proceedings") ||
		strings.Contains(v, "conference") ||
		strings.Contains(v, "workshop") ||
		strings.Contains(v, "symposium") {
		return "inproceedings"
	}

	return "article"
}

func flagKeywords(f work.MatchFlags) string {
	var kw []string
	if f.Shared {
		kw = append(kw, "shared")
	}
	if f.Citing {
		kw = append(kw, "citing")
	}
	if f.CitedBy {
		kw = append(kw, "cited")
	}
	return strings.Join(kw, ", ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & first, before other escapes that might produce &
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
