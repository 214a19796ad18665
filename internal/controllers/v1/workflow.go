package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkflowStagePatch represents the updatable parameters of a workflow
// stage. All fields are optional, only the fields that are set are
// changed.
type WorkflowStagePatch struct {
	Status            *models.StageStatus `json:"status" example:"in_progress"`                                     // New status of the stage
	StartTime         *time.Time          `json:"startTime" example:"2023-05-02T08:00:00Z"`                         // When work on the stage started
	EndTime           *time.Time          `json:"endTime" example:"2023-05-02T12:00:00Z"`                           // When work on the stage ended
	ResponsibleUserID *uuid.UUID          `json:"responsibleUserId" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"` // ID of the user responsible for the stage
	Notes             *string             `json:"notes" example:"customer approved the estimate"`                   // Notes about the stage
}

func (patch WorkflowStagePatch) model() models.StagePatch {
	return models.StagePatch{
		Status:            patch.Status,
		StartTime:         patch.StartTime,
		EndTime:           patch.EndTime,
		ResponsibleUserID: patch.ResponsibleUserID,
		Notes:             patch.Notes,
	}
}

type WorkflowStageLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/workflow/995dd358-1eb6-44f9-a481-9e5344d135a6"`    // The stage itself
	Project string `json:"project" example:"https://example.com/api/v1/projects/65392deb-5e92-4268-b114-297faad6cdce"` // The project the stage belongs to
}

type WorkflowStage struct {
	models.DefaultModel
	ProjectID         uuid.UUID          `json:"projectId" example:"65392deb-5e92-4268-b114-297faad6cdce"`         // ID of the project
	StageKey          string             `json:"stageKey" example:"repair_maintenance"`                            // Stable key of the stage
	StageName         string             `json:"stageName" example:"Repair & Maintenance"`                         // Human readable name of the stage
	Status            models.StageStatus `json:"status" example:"in_progress"`                                     // Status of the stage
	StartTime         *time.Time         `json:"startTime" example:"2023-05-02T08:00:00Z"`                         // When work on the stage started
	EndTime           *time.Time         `json:"endTime" example:"2023-05-02T12:00:00Z"`                           // When work on the stage ended
	ResponsibleUserID *uuid.UUID         `json:"responsibleUserId" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"` // ID of the user responsible for the stage
	Notes             string             `json:"notes" example:"customer approved the estimate"`                   // Notes about the stage
	Links             WorkflowStageLinks `json:"links"`
}

func newWorkflowStage(c *gin.Context, model models.WorkflowStage) WorkflowStage {
	url := c.GetString(string(models.DBContextURL))

	return WorkflowStage{
		DefaultModel:      model.DefaultModel,
		ProjectID:         model.ProjectID,
		StageKey:          model.StageKey,
		StageName:         model.StageName,
		Status:            model.Status,
		StartTime:         model.StartTime,
		EndTime:           model.EndTime,
		ResponsibleUserID: model.ResponsibleUserID,
		Notes:             model.Notes,
		Links: WorkflowStageLinks{
			Self:    fmt.Sprintf("%s/v1/workflow/%s", url, model.ID),
			Project: fmt.Sprintf("%s/v1/projects/%s", url, model.ProjectID),
		},
	}
}

type Workflow struct {
	ProjectID  uuid.UUID       `json:"projectId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the project
	Completion float64         `json:"completion" example:"30"`                                  // Percentage of stages that are done
	Stages     []WorkflowStage `json:"stages"`                                                   // The stages in their defined order
}

type WorkflowResponse struct {
	Data  *Workflow `json:"data"`                                                          // Data for the workflow
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type WorkflowStageResponse struct {
	Data  *WorkflowStage `json:"data"`                                                          // Data for the stage
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RegisterWorkflowRoutes registers the routes for workflow stages with
// the RouterGroup that is passed. The project scoped routes are part of
// the project registration.
func RegisterWorkflowRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsWorkflowStage)
	r.PATCH("/:id", UpdateWorkflowStage)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workflow
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/projects/{id}/workflow [options]
func OptionsProjectWorkflow(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Project{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Workflow
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/workflow/{id} [options]
func OptionsWorkflowStage(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.WorkflowStage{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get project workflow
// @Description	Returns the workflow stages for a project. The workflow is initialized on first access
// @Tags			Workflow
// @Produce		json
// @Success		200	{object}	WorkflowResponse
// @Failure		400	{object}	WorkflowResponse
// @Failure		404	{object}	WorkflowResponse
// @Failure		500	{object}	WorkflowResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/projects/{id}/workflow [get]
func GetProjectWorkflow(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	var project models.Project
	err = models.DB.First(&project, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	// A project gets its stages the first time its workflow is read
	err = models.InitializeWorkflow(models.DB, project)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	stages, err := project.WorkflowStages(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	completion, err := project.CompletionPercentage(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowResponse{
			Error: &s,
		})
		return
	}

	data := Workflow{
		ProjectID:  project.ID,
		Completion: completion,
		Stages:     make([]WorkflowStage, 0, len(stages)),
	}
	for _, stage := range stages {
		data.Stages = append(data.Stages, newWorkflowStage(c, stage))
	}

	c.JSON(http.StatusOK, WorkflowResponse{Data: &data})
}

// @Summary		Update workflow stage
// @Description	Update an existing workflow stage. Only values to be updated need to be specified.
// @Tags			Workflow
// @Accept			json
// @Produce		json
// @Success		200		{object}	WorkflowStageResponse
// @Failure		400		{object}	WorkflowStageResponse
// @Failure		404		{object}	WorkflowStageResponse
// @Failure		500		{object}	WorkflowStageResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			stage	body		WorkflowStagePatch	true	"Stage"
// @Router			/v1/workflow/{id} [patch]
func UpdateWorkflowStage(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowStageResponse{
			Error: &s,
		})
		return
	}

	var patch WorkflowStagePatch
	err = httputil.BindData(c, &patch)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowStageResponse{
			Error: &s,
		})
		return
	}

	stage, err := models.UpdateWorkflowStage(models.DB, uri.ID.UUID, patch.model())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), WorkflowStageResponse{
			Error: &s,
		})
		return
	}

	data := newWorkflowStage(c, stage)
	c.JSON(http.StatusOK, WorkflowStageResponse{Data: &data})
}
