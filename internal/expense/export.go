package expense

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

var exportHeader = []string{"Date", "Title", "Category", "Amount"}

// Export writes the filtered expenses as CSV, newest first.
func (s *Service) Export(ctx context.Context, userID int64, filter Filter, w io.Writer) error {
	expenses, err := s.FindAll(ctx, userID, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range expenses {
		categoryName := ""
		if e.Category != nil {
			categoryName = e.Category.Name
		}
		record := []string{
			e.Date.In(s.location).Format("2006-01-02"),
			e.Title,
			categoryName,
			e.Amount.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
