package importer

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/internal/security"
	"github.com/mroshb/quizline/pkg/logger"
)

// Store is the part of the quiz repository the importer writes to.
type Store interface {
	Create(ctx context.Context, quiz *models.Quiz) error
}

// RowError describes a row that was not imported.
type RowError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("%s!%d: %s", e.Sheet, e.Row, e.Reason)
}

type Report struct {
	Imported int
	Skipped  []RowError
}

// ImportFile loads quizzes from the workbook at path.
func ImportFile(ctx context.Context, store Store, path string) (Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return importWorkbook(ctx, store, f)
}

// Import reads a workbook from r. Every sheet is read; the first row of
// each sheet is a header, column A holds the question and column B the answer.
func Import(ctx context.Context, store Store, r io.Reader) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return importWorkbook(ctx, store, f)
}

func importWorkbook(ctx context.Context, store Store, f *excelize.File) (Report, error) {
	var report Report

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("Failed to read sheet", "sheet", sheet, "error", err)
			report.Skipped = append(report.Skipped, RowError{Sheet: sheet, Reason: err.Error()})
			continue
		}

		for i, row := range rows {
			if i == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				return report, err
			}

			line := i + 1
			if len(row) < 2 {
				if len(row) == 0 {
					continue
				}
				report.Skipped = append(report.Skipped, RowError{Sheet: sheet, Row: line, Reason: "missing answer column"})
				continue
			}

			quiz := &models.Quiz{
				Question: security.SanitizeQuizText(row[0]),
				Answer:   security.SanitizeQuizText(row[1]),
			}
			if err := store.Create(ctx, quiz); err != nil {
				var verr *models.ValidationError
				if !stderrors.As(err, &verr) {
					return report, fmt.Errorf("failed to import %s row %d: %w", sheet, line, err)
				}
				report.Skipped = append(report.Skipped, RowError{Sheet: sheet, Row: line, Reason: verr.Error()})
				continue
			}
			report.Imported++
		}
	}

	logger.Info("Workbook imported", "imported", report.Imported, "skipped", len(report.Skipped))
	return report, nil
}
