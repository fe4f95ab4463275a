// Package export renders saved sweep runs to interchange formats:
// JSON for downstream tooling, XLSX workbooks for spreadsheet review,
// SVG for a quick look at the result curve and coil arrangement.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/bgoddard/lilypad/internal/storage"
	"github.com/bgoddard/lilypad/internal/sweep"
)

// RunData is the full JSON shape of an exported run.
type RunData struct {
	Meta storage.RunMetadata `json:"meta"`
	Rows []sweep.Row         `json:"rows"`
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, rows []sweep.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(RunData{Meta: meta, Rows: rows})
}

func JSONToFile(path string, meta storage.RunMetadata, rows []sweep.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, rows)
}
