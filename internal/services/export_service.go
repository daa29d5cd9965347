package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"finance-tracker/internal/billing"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var exportHeader = []string{"Date", "Amount ($)", "Category", "Note", "Type"}

type ExportService struct {
	expenseRepo      repositories.ExpenseRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	auditLogger      AuditLoggerInterface
	metrics          MetricsRecorderInterface
}

func NewExportService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) ExportServiceInterface {
	return &ExportService{
		expenseRepo:      expenseRepo,
		subscriptionRepo: subscriptionRepo,
		auditLogger:      auditLogger,
		metrics:          metrics,
	}
}

// BuildMonthlyExport lists the month's manual expenses and one row per
// subscription charge billed in the month, oldest first. Rows on the same day
// keep manual expenses ahead of subscriptions.
func (s *ExportService) BuildMonthlyExport(ctx context.Context, userID uuid.UUID, month models.Month) (*models.MonthlyExport, error) {
	start := time.Now()

	expenses, err := s.expenseRepo.GetByDateRange(ctx, userID, month.FirstDay(), month.LastDay())
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	subscriptions, err := s.subscriptionRepo.GetStartedBy(ctx, userID, month.LastDay())
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	export := &models.MonthlyExport{
		Month:             month,
		Rows:              make([]models.ExportRow, 0, len(expenses)+len(subscriptions)),
		ManualTotal:       decimal.Zero,
		SubscriptionTotal: decimal.Zero,
	}

	for _, e := range expenses {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		export.Rows = append(export.Rows, models.ExportRow{
			Date:     models.DateOnly(e.Date),
			Amount:   e.Amount,
			Category: e.Category.Name,
			Note:     note,
			Type:     models.ExportRowManual,
		})
		export.ManualTotal = export.ManualTotal.Add(e.Amount)
	}

	for _, sub := range subscriptions {
		billedOn, ok := billing.OccurrenceInMonth(sub.StartDate, sub.Recurrence, month.Year, month.Month)
		if !ok {
			continue
		}
		export.Rows = append(export.Rows, models.ExportRow{
			Date:     billedOn,
			Amount:   sub.Amount,
			Category: sub.Category.Name,
			Note:     sub.Name,
			Type:     models.ExportRowSubscription,
		})
		export.SubscriptionTotal = export.SubscriptionTotal.Add(sub.Amount)
	}

	slices.SortStableFunc(export.Rows, func(a, b models.ExportRow) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return rowTypeRank(a.Type) - rowTypeRank(b.Type)
	})

	s.metrics.RecordProcessingTime(MetricExportBuild, time.Since(start))
	s.auditLogger.LogExportGenerated(ctx, userID, month.String(), len(export.Rows))

	return export, nil
}

// WriteCSV renders an export with a header row and two-decimal amounts.
func (s *ExportService) WriteCSV(w io.Writer, export *models.MonthlyExport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range export.Rows {
		record := []string{
			models.FormatDate(row.Date),
			row.Amount.StringFixed(2),
			spreadsheetSafe(row.Category),
			spreadsheetSafe(row.Note),
			string(row.Type),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// spreadsheetSafe prefixes free-text cells that a spreadsheet would read as a
// formula with a single quote.
func spreadsheetSafe(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

func rowTypeRank(t models.ExportRowType) int {
	if t == models.ExportRowManual {
		return 0
	}
	return 1
}
