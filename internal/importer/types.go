package importer

import (
	"github.com/garage-ledger/backend/internal/models"
)

// TimesheetPreview is one parsed CSV line before it is persisted. Project
// and user are still referenced by name since the file does not carry IDs.
type TimesheetPreview struct {
	Timesheet   models.Timesheet `json:"timesheet"`
	ProjectName string           `json:"projectName" example:"Camry 2020 - brake overhaul"` // Name of the project from the CSV file
	UserName    string           `json:"userName" example:"Taylor Nguyen"`                  // Name of the user from the CSV file
}
