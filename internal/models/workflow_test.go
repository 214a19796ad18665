package models_test

import (
	"errors"
	"time"

	"github.com/garage-ledger/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestInitializeWorkflow() {
	project := suite.createTestProject(models.Project{Name: "Golf GTI - timing belt"})

	err := models.InitializeWorkflow(models.DB, project)
	suite.Assert().Nil(err)

	stages, err := project.WorkflowStages(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Len(stages, len(models.StageDefinitions))

	for i, stage := range stages {
		suite.Assert().Equal(models.StageDefinitions[i].Key, stage.StageKey, "stage order does not match the definition order")
		suite.Assert().Equal(models.StageNotStarted, stage.Status)
		suite.Assert().Nil(stage.StartTime)
		suite.Assert().Nil(stage.ResponsibleUserID)
	}
}

func (suite *TestSuiteStandard) TestInitializeWorkflowIdempotent() {
	project := suite.createTestProject(models.Project{})

	err := models.InitializeWorkflow(models.DB, project)
	suite.Assert().Nil(err)

	// A second initialization must not create additional stages
	err = models.InitializeWorkflow(models.DB, project)
	suite.Assert().Nil(err)

	stages, err := project.WorkflowStages(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Len(stages, 10, "repeated initialization must not duplicate stages")
}

func (suite *TestSuiteStandard) TestCompletionPercentageWithoutStages() {
	project := suite.createTestProject(models.Project{})

	percentage, err := project.CompletionPercentage(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Zero(percentage)
}

func (suite *TestSuiteStandard) TestCompletionPercentage() {
	project := suite.createTestProject(models.Project{})
	suite.Assert().Nil(models.InitializeWorkflow(models.DB, project))

	percentage, err := project.CompletionPercentage(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Zero(percentage, "no stage is done yet")

	stages, err := project.WorkflowStages(models.DB)
	suite.Assert().Nil(err)

	// Complete the first three stages
	done := models.StageDone
	for _, stage := range stages[:3] {
		_, err = models.UpdateWorkflowStage(models.DB, stage.ID, models.StagePatch{Status: &done})
		suite.Assert().Nil(err)
	}

	percentage, err = project.CompletionPercentage(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Equal(30.0, percentage)

	// Complete everything
	for _, stage := range stages[3:] {
		_, err = models.UpdateWorkflowStage(models.DB, stage.ID, models.StagePatch{Status: &done})
		suite.Assert().Nil(err)
	}

	percentage, err = project.CompletionPercentage(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Equal(100.0, percentage)
}

func (suite *TestSuiteStandard) TestUpdateWorkflowStagePatch() {
	project := suite.createTestProject(models.Project{})
	user := suite.createTestUser(models.User{Name: "Robin"})
	suite.Assert().Nil(models.InitializeWorkflow(models.DB, project))

	stages, err := project.WorkflowStages(models.DB)
	suite.Assert().Nil(err)

	start := time.Date(2023, 5, 2, 8, 0, 0, 0, time.UTC)
	inProgress := models.StageInProgress
	notes := "customer approved the estimate"

	stage, err := models.UpdateWorkflowStage(models.DB, stages[0].ID, models.StagePatch{
		Status:            &inProgress,
		StartTime:         &start,
		ResponsibleUserID: &user.ID,
		Notes:             &notes,
	})
	suite.Assert().Nil(err)
	suite.Assert().Equal(models.StageInProgress, stage.Status)
	suite.Assert().Equal(&user.ID, stage.ResponsibleUserID)
	suite.Assert().Equal(notes, stage.Notes)

	// A patch that only sets the status must leave all other fields unchanged
	done := models.StageDone
	stage, err = models.UpdateWorkflowStage(models.DB, stages[0].ID, models.StagePatch{Status: &done})
	suite.Assert().Nil(err)
	suite.Assert().Equal(models.StageDone, stage.Status)
	suite.Assert().NotNil(stage.StartTime)
	suite.Assert().True(stage.StartTime.Equal(start))
	suite.Assert().Nil(stage.EndTime)
	suite.Assert().Equal(&user.ID, stage.ResponsibleUserID)
	suite.Assert().Equal(notes, stage.Notes)
}

func (suite *TestSuiteStandard) TestUpdateWorkflowStageNotFound() {
	_, err := models.UpdateWorkflowStage(models.DB, uuid.New(), models.StagePatch{})
	suite.Assert().NotNil(err)
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestUpdateWorkflowStageInvalidStatus() {
	project := suite.createTestProject(models.Project{})
	suite.Assert().Nil(models.InitializeWorkflow(models.DB, project))

	stages, err := project.WorkflowStages(models.DB)
	suite.Assert().Nil(err)

	invalid := models.StageStatus("on fire")
	_, err = models.UpdateWorkflowStage(models.DB, stages[0].ID, models.StagePatch{Status: &invalid})
	suite.Assert().True(errors.Is(err, models.ErrStageStatusInvalid), "wrong error: %v", err)
}
