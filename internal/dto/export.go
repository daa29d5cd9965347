package dto

import "finance-tracker/internal/models"

const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ExportQuery represents the export query parameters. Month is parsed by the
// handler so that a malformed value reports an invalid month.
type ExportQuery struct {
	Month  string `query:"month" json:"month"`
	Format string `query:"format" json:"format" validate:"omitempty,oneof=csv json"`
}

type ExportRowResponse struct {
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Type     string `json:"type"`
}

type ExportTotalsResponse struct {
	Manual        string `json:"manual"`
	Subscriptions string `json:"subscriptions"`
	Overall       string `json:"overall"`
}

// ExportResponse is the JSON rendition of a monthly export
type ExportResponse struct {
	Month  string               `json:"month"`
	Rows   []ExportRowResponse  `json:"rows"`
	Totals ExportTotalsResponse `json:"totals"`
}

func NewExportResponse(e *models.MonthlyExport) ExportResponse {
	rows := make([]ExportRowResponse, 0, len(e.Rows))
	for _, r := range e.Rows {
		rows = append(rows, ExportRowResponse{
			Date:     models.FormatDate(r.Date),
			Amount:   r.Amount.StringFixed(2),
			Category: r.Category,
			Note:     r.Note,
			Type:     string(r.Type),
		})
	}
	return ExportResponse{
		Month: e.Month.String(),
		Rows:  rows,
		Totals: ExportTotalsResponse{
			Manual:        e.ManualTotal.StringFixed(2),
			Subscriptions: e.SubscriptionTotal.StringFixed(2),
			Overall:       e.Total().StringFixed(2),
		},
	}
}
