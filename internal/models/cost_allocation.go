package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostAllocation assigns a percentage of one cost item to one team.
type CostAllocation struct {
	DefaultModel
	CostItemID uuid.UUID
	CostItem   CostItem        `json:"-"`
	TeamID     uuid.UUID
	Team       Team            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Percentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`                   // Percentage of the cost item amount, 0-100
}

func (a *CostAllocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*CostAllocation)
	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (a *CostAllocation) checkIntegrity(tx *gorm.DB, toSave CostAllocation) error {
	if toSave.TeamID == uuid.Nil {
		return ErrAllocationTeamNotSet
	}

	return tx.First(&Team{}, toSave.TeamID).Error
}

// AllocatedAmount returns the share of the cost item that is allocated
// to the team. The CostItem association has to be loaded.
func (a CostAllocation) AllocatedAmount() decimal.Decimal {
	return a.CostItem.Amount.Mul(a.Percentage).Div(decimal.NewFromInt(100))
}

// Returns all cost allocations on this instance for export
func (CostAllocation) Export() (json.RawMessage, error) {
	var allocations []CostAllocation
	err := DB.Unscoped().Where(&CostAllocation{}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&allocations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
