package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestUser(user v1.UserEditable, expectedStatus ...int) v1.UserResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/users", body(suite.T(), []v1.UserEditable{user}))
	test.AssertHTTPStatus(suite.T(), expectedStatus[0], &r)

	var response v1.UserCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.UserResponse{}
}

func (suite *TestSuiteStandard) TestUsersCreate() {
	user := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	assert.Equal(suite.T(), "Taylor Nguyen", user.Data.Name)

	// Users are enabled unless the request says otherwise
	if assert.NotNil(suite.T(), user.Data.Enabled) {
		assert.True(suite.T(), *user.Data.Enabled)
	}
	assert.Empty(suite.T(), user.Data.TeamIDs)
}

func (suite *TestSuiteStandard) TestUsersCreateDisabled() {
	disabled := false
	user := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen", Enabled: &disabled})

	// An explicit false must survive the create
	if assert.NotNil(suite.T(), user.Data.Enabled) {
		assert.False(suite.T(), *user.Data.Enabled)
	}

	r := test.Request(suite.T(), suite.router, http.MethodGet, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	if assert.NotNil(suite.T(), response.Data.Enabled) {
		assert.False(suite.T(), *response.Data.Enabled)
	}
}

func (suite *TestSuiteStandard) TestUsersCreateDuplicateName() {
	suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/users", body(suite.T(), []v1.UserEditable{{Name: "Taylor Nguyen"}}))
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestUsersGetFilter() {
	disabled := false

	suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})
	suite.createTestUser(v1.UserEditable{Name: "Robin Okafor", Note: "Apprentice", Enabled: &disabled})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 2},
		{"Enabled", "enabled=true", 1},
		{"Disabled", "enabled=false", 1},
		{"Name", "name=Robin Okafor", 1},
		{"Search note", "search=apprentice", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, fmt.Sprintf("http://example.com/v1/users?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.UserListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestUsersUpdate() {
	user := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	r := test.Request(suite.T(), suite.router, http.MethodPatch, user.Data.Links.Self, `{ "enabled": false }`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	if assert.NotNil(suite.T(), response.Data.Enabled) {
		assert.False(suite.T(), *response.Data.Enabled)
	}
	assert.Equal(suite.T(), "Taylor Nguyen", response.Data.Name)
}

func (suite *TestSuiteStandard) TestUsersDelete() {
	user := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})

	r := test.Request(suite.T(), suite.router, http.MethodDelete, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), suite.router, http.MethodGet, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}

func (suite *TestSuiteStandard) TestUsersInvalidUUID() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/users/NotParseableAsUUID", "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}
