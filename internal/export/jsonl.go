// Package export writes compared collections to JSONL and BibTeX.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/xcite/internal/work"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all works from a JSONL file. A missing file yields no works.
func ReadAll(path string) ([]work.Work, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening works file: %w", err)
	}
	defer f.Close()

	var works []work.Work
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var w work.Work
		if err := json.Unmarshal(line, &w); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		works = append(works, w)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading works file: %w", err)
	}

	return works, nil
}

// WriteAll writes works to a JSONL file, replacing existing content.
func WriteAll(path string, works []work.Work) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating works file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, wk := range works {
		data, err := json.Marshal(wk)
		if err != nil {
			return fmt.Errorf("encoding work %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing work %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing works file: %w", err)
	}
	return f.Close()
}

// ReadCollection reads a JSONL file back into a collection, keeping file order.
// Unlike ReadAll, the file must exist.
func ReadCollection(path string) (*work.Collection, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening works file: %w", err)
	}
	works, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	return work.CollectionOf(works...), nil
}
