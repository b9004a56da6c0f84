package audit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"
)

// WriteCSV renders timeline rows as a CSV document for offline review.
func WriteCSV(rows []TimelineRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"occurred_at", "user_id", "email", "kind", "required", "roles", "resource_id"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.At.UTC().Format(time.RFC3339),
			row.UserID,
			row.Email,
			row.Kind,
			strings.Join(row.Required, ";"),
			strings.Join(row.Roles, ";"),
			row.ResourceID,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
