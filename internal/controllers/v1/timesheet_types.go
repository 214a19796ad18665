package v1

import (
	"fmt"
	"time"

	"github.com/garage-ledger/backend/internal/models"
	gl_uuid "github.com/garage-ledger/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimesheetEditable represents all user configurable parameters
type TimesheetEditable struct {
	ProjectID    uuid.UUID       `json:"projectId" example:"65392deb-5e92-4268-b114-297faad6cdce"`     // ID of the project the time was worked on
	UserID       uuid.UUID       `json:"userId" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"`        // ID of the user who worked the time
	Begin        time.Time       `json:"begin" example:"2023-05-02T08:00:00Z"`                         // Start of the work
	Duration     int64           `json:"duration" example:"21600"`                                     // Worked time in seconds
	Rate         decimal.Decimal `json:"rate" example:"1000000"`                                       // Amount billed to the customer
	InternalRate decimal.Decimal `json:"internalRate" example:"400000"`                                // Internal cost of the worked time
	Note         string          `json:"note" example:"Also checked the exhaust, all good" default:""` // Notes about the record
}

func (editable TimesheetEditable) model() models.Timesheet {
	return models.Timesheet{
		ProjectID:    editable.ProjectID,
		UserID:       editable.UserID,
		Begin:        editable.Begin,
		Duration:     editable.Duration,
		Rate:         editable.Rate,
		InternalRate: editable.InternalRate,
		Note:         editable.Note,
	}
}

type TimesheetLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/timesheets/d430d7c3-d14c-4712-9336-ee56965a6673"`  // The timesheet itself
	Project string `json:"project" example:"https://example.com/api/v1/projects/65392deb-5e92-4268-b114-297faad6cdce"` // The project the time was worked on
	User    string `json:"user" example:"https://example.com/api/v1/users/d180d195-a2a0-4b86-8b0b-f8b29008578d"`       // The user who worked the time
}

type Timesheet struct {
	models.DefaultModel
	TimesheetEditable
	Links TimesheetLinks `json:"links"`
}

func newTimesheet(c *gin.Context, model models.Timesheet) Timesheet {
	url := c.GetString(string(models.DBContextURL))

	return Timesheet{
		DefaultModel: model.DefaultModel,
		TimesheetEditable: TimesheetEditable{
			ProjectID:    model.ProjectID,
			UserID:       model.UserID,
			Begin:        model.Begin,
			Duration:     model.Duration,
			Rate:         model.Rate,
			InternalRate: model.InternalRate,
			Note:         model.Note,
		},
		Links: TimesheetLinks{
			Self:    fmt.Sprintf("%s/v1/timesheets/%s", url, model.ID),
			Project: fmt.Sprintf("%s/v1/projects/%s", url, model.ProjectID),
			User:    fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
		},
	}
}

type TimesheetListResponse struct {
	Data       []Timesheet `json:"data"`                                                          // List of Timesheets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type TimesheetCreateResponse struct {
	Data  []TimesheetResponse `json:"data"`                                                          // List of the created Timesheets or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (t *TimesheetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TimesheetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TimesheetResponse struct {
	Data  *Timesheet `json:"data"`                                                          // Data for the Timesheet
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TimesheetQueryFilter struct {
	ProjectID gl_uuid.UUID `form:"project"`                                           // By ID of the Project
	UserID    gl_uuid.UUID `form:"user"`                                              // By ID of the User
	From      time.Time    `form:"from" filterField:"false" time_format:"2006-01-02"` // Only records beginning on or after this date
	To        time.Time    `form:"to" filterField:"false" time_format:"2006-01-02"`   // Only records beginning on or before this date
	Note      string       `form:"note" filterField:"false"`                          // By note
	Offset    uint         `form:"offset" filterField:"false"`                        // The offset of the first Timesheet returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`                         // Maximum number of Timesheets to return. Defaults to 50.
}

func (f TimesheetQueryFilter) model() (models.Timesheet, error) {
	return models.Timesheet{
		ProjectID: f.ProjectID.UUID,
		UserID:    f.UserID.UUID,
	}, nil
}
