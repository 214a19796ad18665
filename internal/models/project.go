package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Project represents a repair order in the workshop. Every timesheet,
// COGS entry and workflow stage belongs to exactly one project.
type Project struct {
	DefaultModel
	Name         string `gorm:"uniqueIndex"`
	Note         string
	VehiclePlate string
	Archived     bool
}

// BeforeSave trims whitespace from all strings.
func (p *Project) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)
	p.VehiclePlate = strings.TrimSpace(p.VehiclePlate)

	return nil
}

// BeforeDelete removes the resources that belong to the project.
// The SQL cascade does not fire for soft deletes, so the timesheets,
// COGS entries and workflow stages are deleted here.
func (p *Project) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("project_id = ?", p.ID).Delete(&Timesheet{}).Error; err != nil {
		return err
	}

	if err := tx.Where("project_id = ?", p.ID).Delete(&ProjectCogs{}).Error; err != nil {
		return err
	}

	return tx.Where("project_id = ?", p.ID).Delete(&WorkflowStage{}).Error
}

// Timesheets returns all timesheets for this project.
func (p Project) Timesheets(db *gorm.DB) ([]Timesheet, error) {
	var timesheets []Timesheet

	err := db.Where(Timesheet{ProjectID: p.ID}).Find(&timesheets).Error
	return timesheets, err
}

// Cogs returns all direct cost entries for this project, in insertion order.
func (p Project) Cogs(db *gorm.DB) ([]ProjectCogs, error) {
	var cogs []ProjectCogs

	err := db.Where(ProjectCogs{ProjectID: p.ID}).Order("created_at ASC").Find(&cogs).Error
	return cogs, err
}

// Returns all projects on this instance for export
func (Project) Export() (json.RawMessage, error) {
	var projects []Project
	err := DB.Unscoped().Where(&Project{}).Find(&projects).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&projects)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
