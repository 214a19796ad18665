package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// StageStatus is the status of a single workflow stage.
//
// Transitions are deliberately unrestricted: the workflow is
// declarative bookkeeping for the shop floor, not a guarded state
// machine.
type StageStatus string

const (
	StageNotStarted StageStatus = "not_started"
	StageInProgress StageStatus = "in_progress"
	StageDone       StageStatus = "done"
	StagePaused     StageStatus = "paused"
)

// StageStatuses lists all valid stage statuses.
var StageStatuses = []StageStatus{StageNotStarted, StageInProgress, StageDone, StagePaused}

// StageDefinition is one entry of the fixed stage list.
type StageDefinition struct {
	Key  string `json:"key" example:"diagnosis"`
	Name string `json:"name" example:"Diagnosis"`
}

// StageDefinitions is the fixed, ordered list of service stages every
// project goes through. The order is meaningful: it is both the
// initialization and the display order.
var StageDefinitions = []StageDefinition{
	{Key: "reception", Name: "Reception"},
	{Key: "diagnosis", Name: "Diagnosis"},
	{Key: "estimate", Name: "Estimate & confirmation"},
	{Key: "parts_prep", Name: "Parts preparation"},
	{Key: "repair_maintenance", Name: "Repair/Maintenance"},
	{Key: "painting", Name: "Painting (if needed)"},
	{Key: "detailing", Name: "Detailing (if needed)"},
	{Key: "quality_check", Name: "Quality check"},
	{Key: "cleaning", Name: "Vehicle cleaning"},
	{Key: "handover", Name: "Handover"},
}

// WorkflowStage is one row per (project, stage key) pair. The full set
// of stages is created once per project and mutated in place.
type WorkflowStage struct {
	DefaultModel
	ProjectID         uuid.UUID
	Project           Project     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	StageKey          string
	StageName         string
	Status            StageStatus `gorm:"default:not_started"`
	StartTime         *time.Time
	EndTime           *time.Time
	ResponsibleUserID *uuid.UUID
	ResponsibleUser   *User       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Notes             string
}

// BeforeSave validates the stage status.
func (s *WorkflowStage) BeforeSave(_ *gorm.DB) error {
	if s.Status == "" {
		s.Status = StageNotStarted
	}
	if !slices.Contains(StageStatuses, s.Status) {
		return ErrStageStatusInvalid
	}

	return nil
}

// StagePatch is an update command for a workflow stage. Every nil
// field is left unchanged, every non-nil field overwrites the
// corresponding attribute. This distinguishes "not provided" from
// zero values.
type StagePatch struct {
	Status            *StageStatus
	StartTime         *time.Time
	EndTime           *time.Time
	ResponsibleUserID *uuid.UUID
	Notes             *string
}

// InitializeWorkflow creates the full set of stages for a project if
// and only if the project has no stage rows yet.
//
// It is idempotent: the existence of any stage row for the project
// skips creation entirely.
func InitializeWorkflow(db *gorm.DB, project Project) error {
	var count int64
	err := db.Model(&WorkflowStage{}).Where(WorkflowStage{ProjectID: project.ID}).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, definition := range StageDefinitions {
			stage := WorkflowStage{
				ProjectID: project.ID,
				StageKey:  definition.Key,
				StageName: definition.Name,
				Status:    StageNotStarted,
			}

			if err := tx.Create(&stage).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// WorkflowStages returns the stages of the project in the fixed
// definition order. Stages are created in that order, so insertion
// order is sufficient.
func (p Project) WorkflowStages(db *gorm.DB) ([]WorkflowStage, error) {
	var stages []WorkflowStage

	err := db.
		Where(WorkflowStage{ProjectID: p.ID}).
		Order("created_at ASC, stage_key ASC").
		Find(&stages).Error
	return stages, err
}

// UpdateWorkflowStage applies a patch to a single stage and persists
// the mutation in one transaction. It returns the updated stage.
func UpdateWorkflowStage(db *gorm.DB, id uuid.UUID, patch StagePatch) (WorkflowStage, error) {
	var stage WorkflowStage

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&stage, id).Error
		if err != nil {
			return err
		}

		if patch.Status != nil {
			stage.Status = *patch.Status
		}
		if patch.StartTime != nil {
			stage.StartTime = patch.StartTime
		}
		if patch.EndTime != nil {
			stage.EndTime = patch.EndTime
		}
		if patch.ResponsibleUserID != nil {
			err = tx.First(&User{}, *patch.ResponsibleUserID).Error
			if err != nil {
				return err
			}
			stage.ResponsibleUserID = patch.ResponsibleUserID
		}
		if patch.Notes != nil {
			stage.Notes = *patch.Notes
		}

		return tx.Save(&stage).Error
	})

	return stage, err
}

// CompletionPercentage returns how far the project has progressed
// through its workflow: 100 * done stages / total stages. A project
// without stages is at 0.
func (p Project) CompletionPercentage(db *gorm.DB) (float64, error) {
	stages, err := p.WorkflowStages(db)
	if err != nil {
		return 0, err
	}

	if len(stages) == 0 {
		return 0, nil
	}

	var done int
	for _, stage := range stages {
		if stage.Status == StageDone {
			done++
		}
	}

	return float64(done*100) / float64(len(stages)), nil
}

// Returns all workflow stages on this instance for export
func (WorkflowStage) Export() (json.RawMessage, error) {
	var stages []WorkflowStage
	err := DB.Unscoped().Where(&WorkflowStage{}).Find(&stages).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&stages)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
