package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CostCategory is the closed set of indirect cost categories.
type CostCategory string

const (
	CategorySelling      CostCategory = "OPEX_SELLING" // Selling expenses
	CategoryGeneralAdmin CostCategory = "OPEX_GA"      // General administration expenses
	CategoryFinancial    CostCategory = "FINANCIAL"    // Financial expenses
	CategoryTax          CostCategory = "TAX"          // Corporate tax expenses
)

// CostCategories lists all valid cost categories.
var CostCategories = []CostCategory{CategorySelling, CategoryGeneralAdmin, CategoryFinancial, CategoryTax}

// CostStatus is the lifecycle status of a cost item.
type CostStatus string

const (
	CostStatusForecast CostStatus = "forecast"
	CostStatusActual   CostStatus = "actual"
)

// CostStatuses lists all valid cost item statuses.
var CostStatuses = []CostStatus{CostStatusForecast, CostStatusActual}

// AllocationTolerance is the allowed deviation of a cost item's
// allocation percentages from 100%.
var AllocationTolerance = decimal.NewFromFloat(0.01)

// CostItem represents an indirect (overhead) cost entry.
//
// The item is distributed to teams by its allocations. Deleting a cost
// item deletes its allocations.
type CostItem struct {
	DefaultModel
	Name        string
	Amount      decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	Category    CostCategory
	Status      CostStatus       `gorm:"default:forecast"`
	EntryDate   time.Time
	Allocations []CostAllocation `gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave validates the closed enumerations and normalizes the
// entry date to UTC.
func (c *CostItem) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)

	if !slices.Contains(CostCategories, c.Category) {
		return ErrCostCategoryInvalid
	}

	if c.Status == "" {
		c.Status = CostStatusForecast
	}
	if !slices.Contains(CostStatuses, c.Status) {
		return ErrCostStatusInvalid
	}

	if c.EntryDate.IsZero() {
		c.EntryDate = time.Now().In(time.UTC)
	} else {
		c.EntryDate = c.EntryDate.In(time.UTC)
	}

	return nil
}

// BeforeDelete removes the allocations of the cost item. The SQL
// cascade does not fire for soft deletes.
func (c *CostItem) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("cost_item_id = ?", c.ID).Delete(&CostAllocation{}).Error
}

// AfterFind updates the entry date to use UTC as timezone.
func (c *CostItem) AfterFind(_ *gorm.DB) error {
	c.EntryDate = c.EntryDate.In(time.UTC)
	return nil
}

// ValidateAllocations verifies the invariant for a cost item's
// allocation set: when any allocation exists, the percentages must sum
// to 100 within AllocationTolerance and every single percentage must
// be between 0 and 100.
func ValidateAllocations(allocations []CostAllocation) error {
	if len(allocations) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, allocation := range allocations {
		if allocation.Percentage.IsNegative() || allocation.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPercentageOutOfBounds
		}

		sum = sum.Add(allocation.Percentage)
	}

	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(AllocationTolerance) {
		return ErrAllocationSumInvalid
	}

	return nil
}

// Returns all cost items on this instance for export
func (CostItem) Export() (json.RawMessage, error) {
	var costItems []CostItem
	err := DB.Unscoped().Where(&CostItem{}).Find(&costItems).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&costItems)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
