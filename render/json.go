package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gitrecap/models"
)

// jsonRenderer writes the report as indented JSON. Statistics appear only
// when requested, so consumers that never asked for them see a stable shape.
type jsonRenderer struct {
	opts Options
}

func (r *jsonRenderer) Render(w io.Writer, report *models.Report) error {
	out := *report
	if !r.opts.IncludeStats {
		out.Stats = nil
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
