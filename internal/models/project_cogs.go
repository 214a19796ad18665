package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CogsType is the closed set of direct cost types. It is a closed
// enumeration so that new types are added here, not free-typed.
type CogsType string

const (
	CogsTypeSupplies CogsType = "SUPPLIES" // Supplies and spare parts
)

// CogsTypes lists all valid COGS entry types.
var CogsTypes = []CogsType{CogsTypeSupplies}

// ProjectCogs represents a direct cost of goods sold for a project,
// e.g. supplies. It is cascade-deleted with the project.
type ProjectCogs struct {
	DefaultModel
	ProjectID   uuid.UUID
	Project     Project         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Type        CogsType        `gorm:"column:cogs_type"`
	Description string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (ProjectCogs) TableName() string {
	return "project_cogs"
}

// BeforeSave validates the COGS type.
func (c *ProjectCogs) BeforeSave(_ *gorm.DB) error {
	c.Description = strings.TrimSpace(c.Description)

	if c.Type == "" {
		c.Type = CogsTypeSupplies
	}
	if !slices.Contains(CogsTypes, c.Type) {
		return ErrCogsTypeInvalid
	}

	return nil
}

func (c *ProjectCogs) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ProjectCogs)
	return tx.First(&Project{}, toSave.ProjectID).Error
}

// Returns all project COGS entries on this instance for export
func (ProjectCogs) Export() (json.RawMessage, error) {
	var cogs []ProjectCogs
	err := DB.Unscoped().Where(&ProjectCogs{}).Find(&cogs).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&cogs)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
