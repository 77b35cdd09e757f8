package dto

import "time"

// AgendaReportRequest selects a register window to export.
type AgendaReportRequest struct {
	Direction string `form:"direction" validate:"required"`
	Start     string `form:"start" validate:"required"`
	End       string `form:"end" validate:"required"`
	Format    string `form:"format"`
}

// AgendaReportResponse points at the generated file.
type AgendaReportResponse struct {
	ReportID    string    `json:"report_id"`
	Format      string    `json:"format"`
	RowCount    int       `json:"row_count"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
