package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestProject(project v1.ProjectEditable, expectedStatus ...int) v1.ProjectResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/projects", body(suite.T(), []v1.ProjectEditable{project}))
	test.AssertHTTPStatus(suite.T(), expectedStatus[0], &r)

	var response v1.ProjectCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.ProjectResponse{}
}

func (suite *TestSuiteStandard) TestProjectsOptions() {
	tests := []struct {
		name   string
		id     string // path at the projects endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No ID", "", http.StatusNoContent},
		{"Not found", "e6ed138f-e307-41bc-a0b1-fed79e9617e4", http.StatusNotFound},
		{"Invalid UUID", "NotParseableAsUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodOptions, fmt.Sprintf("http://example.com/v1/projects/%s", tt.id), "")
			assert.Equal(t, tt.status, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestProjectsCreate() {
	project := suite.createTestProject(v1.ProjectEditable{
		Name:         "Camry 2020 - brake overhaul",
		VehiclePlate: "B 1234 XYZ",
	})

	assert.Equal(suite.T(), "Camry 2020 - brake overhaul", project.Data.Name)
	assert.Equal(suite.T(), "B 1234 XYZ", project.Data.VehiclePlate)
	assert.False(suite.T(), project.Data.Archived)
	assert.Contains(suite.T(), project.Data.Links.Self, "/v1/projects/")
	assert.Contains(suite.T(), project.Data.Links.Workflow, "/workflow")
}

func (suite *TestSuiteStandard) TestProjectsCreateDuplicateName() {
	suite.createTestProject(v1.ProjectEditable{Name: "Unique"})

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/projects", body(suite.T(), []v1.ProjectEditable{{Name: "Unique"}}))
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestProjectsCreateInvalidBody() {
	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/projects", `{ "name": 2" }`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestProjectsGetAll() {
	suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	suite.createTestProject(v1.ProjectEditable{Name: "Transit 2018 - gearbox", Archived: true})

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/projects", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), int64(2), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestProjectsGetFilter() {
	suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	suite.createTestProject(v1.ProjectEditable{Name: "Transit 2018 - gearbox", Archived: true})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 1},
		{"Name", "name=Camry 2020 - brake overhaul", 1},
		{"Search", "search=gearbox", 1},
		{"No match", "name=Golf", 0},
		{"Limit", "limit=1", 1},
		{"Offset", "offset=1&limit=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, fmt.Sprintf("http://example.com/v1/projects?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.ProjectListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestProjectsGetSingle() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})

	r := test.Request(suite.T(), suite.router, http.MethodGet, project.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), project.Data.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestProjectsGetNotFound() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/projects/e6ed138f-e307-41bc-a0b1-fed79e9617e4", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestProjectsUpdate() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})

	r := test.Request(suite.T(), suite.router, http.MethodPatch, project.Data.Links.Self, `{ "archived": true }`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.Archived)

	// Fields not in the body are unchanged
	assert.Equal(suite.T(), "Camry 2020 - brake overhaul", response.Data.Name)
}

func (suite *TestSuiteStandard) TestProjectsDelete() {
	project := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})

	r := test.Request(suite.T(), suite.router, http.MethodDelete, project.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), suite.router, http.MethodGet, project.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

// TestProjectsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestProjectsDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/projects", "")
	test.AssertHTTPStatus(suite.T(), http.StatusInternalServerError, &r)
}
