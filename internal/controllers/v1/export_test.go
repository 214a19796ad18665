package v1_test

import (
	"encoding/json"
	"net/http"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExport() {
	suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020"})
	suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ExportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "GNU Terry Pratchett", response.Clacks)
	assert.False(suite.T(), response.CreationTime.IsZero())

	// Every registered model has a key in the export
	assert.Len(suite.T(), response.Data, len(models.Registry))
	for _, key := range []string{"Project", "User", "Team", "Timesheet", "CostItem", "CostAllocation", "ProjectCogs", "WorkflowStage"} {
		assert.Contains(suite.T(), response.Data, key)
	}

	var projects []models.Project
	assert.NoError(suite.T(), json.Unmarshal(response.Data["Project"], &projects))
	assert.Len(suite.T(), projects, 1)
}

func (suite *TestSuiteStandard) TestExportDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), http.StatusInternalServerError, &r)
}

func (suite *TestSuiteStandard) TestExportOptions() {
	r := test.Request(suite.T(), suite.router, http.MethodOptions, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))
}
