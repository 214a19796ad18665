package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Timesheet represents one time-tracking record for a user on a project.
//
// Rate is the amount billed to the customer for the record, InternalRate
// is what the recorded time costs the workshop.
type Timesheet struct {
	DefaultModel
	ProjectID    uuid.UUID
	Project      Project         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID       uuid.UUID
	User         User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Begin        time.Time
	Duration     int64           // Duration in seconds
	Rate         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InternalRate decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Note         string
}

// BeforeSave sets the timezone for Begin to UTC.
func (t *Timesheet) BeforeSave(_ *gorm.DB) error {
	if t.Begin.IsZero() {
		t.Begin = time.Now().In(time.UTC)
	} else {
		t.Begin = t.Begin.In(time.UTC)
	}

	if t.Duration < 0 {
		return ErrTimesheetDurationNeg
	}

	return nil
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Timesheet)
	return t.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (t *Timesheet) checkIntegrity(tx *gorm.DB, toSave Timesheet) error {
	err := tx.First(&Project{}, toSave.ProjectID).Error
	if err != nil {
		return err
	}

	return tx.First(&User{}, toSave.UserID).Error
}

// AfterFind updates the timestamps to use UTC as timezone.
func (t *Timesheet) AfterFind(_ *gorm.DB) error {
	t.Begin = t.Begin.In(time.UTC)
	return nil
}

// Returns all timesheets on this instance for export
func (Timesheet) Export() (json.RawMessage, error) {
	var timesheets []Timesheet
	err := DB.Unscoped().Where(&Timesheet{}).Find(&timesheets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&timesheets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
