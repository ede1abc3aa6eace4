// Package export renders feedback record sets as downloadable tabular files.
// Exports serialize stored records as-is: no redaction, no row omitted.
package export

import (
	"bytes"
	"encoding/csv"
	"time"

	"feedback-backend/internal/models"
)

var csvHeader = []string{"service", "emoji", "feedback", "email", "phone", "timestamp"}

// CSV renders records with a fixed column order and one header row.
// Quoting and escaping follow RFC 4180 via encoding/csv.
func CSV(feedbacks []models.Feedback) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, fb := range feedbacks {
		row := []string{
			fb.Service,
			fb.Emoji,
			fb.Feedback,
			fb.Email,
			fb.Phone,
			fb.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
