package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestCostItem(item v1.CostItemEditable, expectedStatus ...int) v1.CostItemResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/v1/cost-items", body(suite.T(), []v1.CostItemEditable{item}))
	test.AssertHTTPStatus(suite.T(), expectedStatus[0], &r)

	var response v1.CostItemCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CostItemResponse{}
}

func (suite *TestSuiteStandard) TestCostItemsCreate() {
	team := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})

	item := suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(1000000),
		Category:  models.CategoryGeneralAdmin,
		Status:    models.CostStatusActual,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Allocations: []v1.AllocationEditable{
			{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(100)},
		},
	})

	assert.Equal(suite.T(), "Workshop rent", item.Data.Name)
	if assert.Len(suite.T(), item.Data.Allocations, 1) {
		assert.True(suite.T(), item.Data.Allocations[0].AllocatedAmount.Equal(decimal.NewFromInt(1000000)))
	}
}

func (suite *TestSuiteStandard) TestCostItemsCreateDefaultStatus() {
	item := suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Insurance",
		Amount:    decimal.NewFromInt(200000),
		Category:  models.CategoryFinancial,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(suite.T(), models.CostStatusForecast, item.Data.Status)
}

func (suite *TestSuiteStandard) TestCostItemsCreateAllocationErrors() {
	team := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})

	tests := []struct {
		name        string
		allocations []v1.AllocationEditable
	}{
		{"Sum below 100", []v1.AllocationEditable{{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(60)}}},
		{"Sum above 100", []v1.AllocationEditable{
			{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(60)},
			{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(41)},
		}},
		{"Negative share", []v1.AllocationEditable{{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(-10)}}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodPost, "http://example.com/v1/cost-items", body(t, []v1.CostItemEditable{{
				Name:        fmt.Sprintf("Cost item %s", tt.name),
				Amount:      decimal.NewFromInt(1000000),
				Category:    models.CategoryGeneralAdmin,
				EntryDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				Allocations: tt.allocations,
			}}))
			test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestCostItemsCreateInvalidCategory() {
	suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Unknown category",
		Amount:    decimal.NewFromInt(1000),
		Category:  "SOMETHING_ELSE",
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCostItemsGetFilter() {
	teamA := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})
	teamB := suite.createTestTeam(v1.TeamEditable{Name: "Engine"})

	suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(1000000),
		Category:  models.CategoryGeneralAdmin,
		Status:    models.CostStatusActual,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Allocations: []v1.AllocationEditable{
			{TeamID: teamA.Data.ID, Percentage: decimal.NewFromInt(100)},
		},
	})
	suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Marketing",
		Amount:    decimal.NewFromInt(300000),
		Category:  models.CategorySelling,
		EntryDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Allocations: []v1.AllocationEditable{
			{TeamID: teamB.Data.ID, Percentage: decimal.NewFromInt(100)},
		},
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 2},
		{"Category", "category=OPEX_GA", 1},
		{"Status", "status=actual", 1},
		{"Team", fmt.Sprintf("team=%s", teamA.Data.ID), 1},
		{"Window", "from=2026-05-01&to=2026-05-31", 1},
		{"Name", "name=Workshop rent", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, fmt.Sprintf("http://example.com/v1/cost-items?%s", tt.query), "")
			test.AssertHTTPStatus(t, http.StatusOK, &r)

			var response v1.CostItemListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestCostItemsUpdateReplacesAllocations() {
	teamA := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})
	teamB := suite.createTestTeam(v1.TeamEditable{Name: "Engine"})

	item := suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(1000000),
		Category:  models.CategoryGeneralAdmin,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Allocations: []v1.AllocationEditable{
			{TeamID: teamA.Data.ID, Percentage: decimal.NewFromInt(100)},
		},
	})

	patch := fmt.Sprintf(`{ "allocations": [ { "teamId": "%s", "percentage": 70 }, { "teamId": "%s", "percentage": 30 } ] }`, teamA.Data.ID, teamB.Data.ID)
	r := test.Request(suite.T(), suite.router, http.MethodPatch, item.Data.Links.Self, patch)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.CostItemResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data.Allocations, 2)

	// The name was not part of the body and is unchanged
	assert.Equal(suite.T(), "Workshop rent", response.Data.Name)
}

func (suite *TestSuiteStandard) TestCostItemsUpdateInvalidAllocationSum() {
	team := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})

	item := suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(1000000),
		Category:  models.CategoryGeneralAdmin,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	patch := fmt.Sprintf(`{ "allocations": [ { "teamId": "%s", "percentage": 50 } ] }`, team.Data.ID)
	r := test.Request(suite.T(), suite.router, http.MethodPatch, item.Data.Links.Self, patch)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}

func (suite *TestSuiteStandard) TestCostItemsDelete() {
	item := suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(1000000),
		Category:  models.CategoryGeneralAdmin,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.T(), suite.router, http.MethodDelete, item.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)

	r = test.Request(suite.T(), suite.router, http.MethodGet, item.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &r)
}
