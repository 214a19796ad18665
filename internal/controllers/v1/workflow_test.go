package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/test"
	"github.com/stretchr/testify/assert"
)

// getTestWorkflow fetches the workflow for a project, creating the
// stages on first access.
func (suite *TestSuiteStandard) getTestWorkflow(project v1.ProjectResponse) v1.Workflow {
	r := test.Request(suite.T(), suite.router, http.MethodGet, project.Data.Links.Workflow, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.WorkflowResponse
	test.DecodeResponse(suite.T(), &r, &response)

	return *response.Data
}

func (suite *TestSuiteStandard) TestWorkflowInitializedOnFirstAccess() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})

	workflow := suite.getTestWorkflow(project)

	assert.Equal(suite.T(), project.Data.ID, workflow.ProjectID)
	assert.Equal(suite.T(), float64(0), workflow.Completion)

	if assert.Len(suite.T(), workflow.Stages, len(models.StageDefinitions)) {
		// Stages come back in their defined order
		for i, definition := range models.StageDefinitions {
			assert.Equal(suite.T(), definition.Key, workflow.Stages[i].StageKey)
			assert.Equal(suite.T(), models.StageNotStarted, workflow.Stages[i].Status)
		}
	}

	// A second fetch does not create the stages again
	workflow = suite.getTestWorkflow(project)
	assert.Len(suite.T(), workflow.Stages, len(models.StageDefinitions))
}

func (suite *TestSuiteStandard) TestWorkflowUnknownProject() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/projects/e6ed138f-e307-41bc-a0b1-fed79e9617e4/workflow", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestWorkflowStageUpdate() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	user := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	workflow := suite.getTestWorkflow(project)
	stage := workflow.Stages[0]

	patch := fmt.Sprintf(`{ "status": "in_progress", "startTime": "2026-05-04T08:00:00Z", "responsibleUserId": "%s", "notes": "customer called" }`, user.Data.ID)
	r := test.Request(suite.T(), suite.router, http.MethodPatch, stage.Links.Self, patch)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.WorkflowStageResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.StageInProgress, response.Data.Status)
	assert.Equal(suite.T(), "customer called", response.Data.Notes)
	if assert.NotNil(suite.T(), response.Data.ResponsibleUserID) {
		assert.Equal(suite.T(), user.Data.ID, *response.Data.ResponsibleUserID)
	}

	// A patch that only sets the status keeps everything else
	r = test.Request(suite.T(), suite.router, http.MethodPatch, stage.Links.Self, `{ "status": "done" }`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.StageDone, response.Data.Status)
	assert.Equal(suite.T(), "customer called", response.Data.Notes)
	assert.NotNil(suite.T(), response.Data.StartTime)
}

func (suite *TestSuiteStandard) TestWorkflowStageUpdateInvalidStatus() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	workflow := suite.getTestWorkflow(project)

	r := test.Request(suite.T(), suite.router, http.MethodPatch, workflow.Stages[0].Links.Self, `{ "status": "somewhere" }`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestWorkflowStageUpdateNotFound() {
	r := test.Request(suite.T(), suite.router, http.MethodPatch, "http://example.com/v1/workflow/e6ed138f-e307-41bc-a0b1-fed79e9617e4", `{ "status": "done" }`)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestWorkflowCompletionOnProject() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	workflow := suite.getTestWorkflow(project)

	// Finish three of the ten stages
	for _, stage := range workflow.Stages[:3] {
		r := test.Request(suite.T(), suite.router, http.MethodPatch, stage.Links.Self, `{ "status": "done" }`)
		test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)
	}

	r := test.Request(suite.T(), suite.router, http.MethodGet, project.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), float64(30), response.Data.WorkflowCompletion)
}
