package v1

import (
	"fmt"
	"time"

	"github.com/garage-ledger/backend/internal/models"
	gl_uuid "github.com/garage-ledger/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationEditable represents one percentage share of a cost item
// that is allocated to a team.
type AllocationEditable struct {
	TeamID     uuid.UUID       `json:"teamId" example:"7e65bbc1-ae96-4ff2-9e0a-f5554aebe0a9"` // ID of the team the share is allocated to
	Percentage decimal.Decimal `json:"percentage" example:"70"`                               // Share of the cost item in percent
}

func (editable AllocationEditable) model() models.CostAllocation {
	return models.CostAllocation{
		TeamID:     editable.TeamID,
		Percentage: editable.Percentage,
	}
}

// CostItemEditable represents all user configurable parameters
type CostItemEditable struct {
	Name        string               `json:"name" example:"Workshop rent" default:""`    // Name of the cost item
	Amount      decimal.Decimal      `json:"amount" example:"1000000"`                   // Amount of the cost item
	Category    models.CostCategory  `json:"category" example:"OPEX_GA"`                 // Category of the cost
	Status      models.CostStatus    `json:"status" example:"actual" default:"forecast"` // Is the cost planned or booked?
	EntryDate   time.Time            `json:"entryDate" example:"2023-05-01T00:00:00Z"`   // Date the cost is booked for
	Allocations []AllocationEditable `json:"allocations"`                                // Percentage shares allocated to teams. Must sum to 100 when set
}

func (editable CostItemEditable) model() models.CostItem {
	return models.CostItem{
		Name:      editable.Name,
		Amount:    editable.Amount,
		Category:  editable.Category,
		Status:    editable.Status,
		EntryDate: editable.EntryDate,
	}
}

func (editable CostItemEditable) allocationModels() []models.CostAllocation {
	allocations := make([]models.CostAllocation, 0, len(editable.Allocations))
	for _, a := range editable.Allocations {
		allocations = append(allocations, a.model())
	}
	return allocations
}

type Allocation struct {
	TeamID          uuid.UUID       `json:"teamId" example:"7e65bbc1-ae96-4ff2-9e0a-f5554aebe0a9"` // ID of the team the share is allocated to
	Percentage      decimal.Decimal `json:"percentage" example:"70"`                               // Share of the cost item in percent
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" example:"700000"`                      // Absolute amount allocated to the team
}

type CostItemLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/cost-items/a3b82a0e-b4a8-4639-8ff8-4b4b71ca4de1"` // The cost item itself
}

type CostItem struct {
	models.DefaultModel
	Name      string              `json:"name" example:"Workshop rent"`             // Name of the cost item
	Amount    decimal.Decimal     `json:"amount" example:"1000000"`                 // Amount of the cost item
	Category  models.CostCategory `json:"category" example:"OPEX_GA"`               // Category of the cost
	Status    models.CostStatus   `json:"status" example:"actual"`                  // Is the cost planned or booked?
	EntryDate time.Time           `json:"entryDate" example:"2023-05-01T00:00:00Z"` // Date the cost is booked for
	Links     CostItemLinks       `json:"links"`

	// These fields are computed
	Allocations []Allocation `json:"allocations"` // Percentage shares allocated to teams
}

func newCostItem(c *gin.Context, db *gorm.DB, model models.CostItem) (CostItem, error) {
	url := c.GetString(string(models.DBContextURL))

	item := CostItem{
		DefaultModel: model.DefaultModel,
		Name:         model.Name,
		Amount:       model.Amount,
		Category:     model.Category,
		Status:       model.Status,
		EntryDate:    model.EntryDate,
		Links: CostItemLinks{
			Self: fmt.Sprintf("%s/v1/cost-items/%s", url, model.ID),
		},
	}

	var allocations []models.CostAllocation
	err := db.Where(&models.CostAllocation{CostItemID: model.ID}).Find(&allocations).Error
	if err != nil {
		return CostItem{}, err
	}

	// When there are no allocations, we want an empty list, not null
	item.Allocations = make([]Allocation, 0)
	for _, allocation := range allocations {
		allocation.CostItem = model
		item.Allocations = append(item.Allocations, Allocation{
			TeamID:          allocation.TeamID,
			Percentage:      allocation.Percentage,
			AllocatedAmount: allocation.AllocatedAmount(),
		})
	}

	return item, nil
}

type CostItemListResponse struct {
	Data       []CostItem  `json:"data"`                                                          // List of CostItems
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CostItemCreateResponse struct {
	Data  []CostItemResponse `json:"data"`                                                          // List of the created CostItems or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CostItemCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CostItemResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CostItemResponse struct {
	Data  *CostItem `json:"data"`                                                          // Data for the CostItem
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CostItemQueryFilter struct {
	Name     string       `form:"name" filterField:"false"`                          // By name
	Category string       `form:"category"`                                          // By cost category
	Status   string       `form:"status"`                                            // By forecast/actual status
	TeamID   gl_uuid.UUID `form:"team" filterField:"false"`                          // Only cost items with an allocation for this team
	From     time.Time    `form:"from" filterField:"false" time_format:"2006-01-02"` // Only cost items entered on or after this date
	To       time.Time    `form:"to" filterField:"false" time_format:"2006-01-02"`   // Only cost items entered on or before this date
	Offset   uint         `form:"offset" filterField:"false"`                        // The offset of the first CostItem returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`                         // Maximum number of CostItems to return. Defaults to 50.
}

func (f CostItemQueryFilter) model() (models.CostItem, error) {
	return models.CostItem{
		Category: models.CostCategory(f.Category),
		Status:   models.CostStatus(f.Status),
	}, nil
}
