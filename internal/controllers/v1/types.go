package v1

import (
	"time"

	gl_uuid "github.com/garage-ledger/backend/internal/uuid"
)

type URIID struct {
	ID gl_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// QueryPeriod is the reporting window for all report endpoints. Both
// parameters are optional, the window defaults to the current calendar
// month.
type QueryPeriod struct {
	From time.Time `form:"from" time_format:"2006-01-02" time_utc:"1" example:"2023-05-01"` // First day of the window
	To   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1" example:"2023-05-31"`   // Last day of the window
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
