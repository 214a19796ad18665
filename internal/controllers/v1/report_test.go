package v1_test

import (
	"net/http"
	"time"

	v1 "github.com/garage-ledger/backend/internal/controllers/v1"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// seedReportData creates two projects with bookings in May 2026, two
// users on one team and an indirect cost allocated to that team.
//
// Camry: revenue 1500000, labor 600000, supplies 100000, gross profit 800000
// Transit: revenue 500000, labor 250000, gross profit 250000
// Cost item: 300000 actual, fully allocated to the team of both users
func (suite *TestSuiteStandard) seedReportData() {
	camry := suite.createTestProject(v1.ProjectEditable{Name: "Camry 2020 - brake overhaul"})
	transit := suite.createTestProject(v1.ProjectEditable{Name: "Transit 2018 - gearbox"})

	userA := suite.createTestUser(v1.UserEditable{Name: "Taylor Nguyen"})
	userB := suite.createTestUser(v1.UserEditable{Name: "Robin Okafor"})

	team := suite.createTestTeam(v1.TeamEditable{Name: "Bodywork"})
	suite.addTestTeamMember(team, userA)
	suite.addTestTeamMember(team, userB)

	suite.createTestTimesheet(v1.TimesheetEditable{
		ProjectID:    camry.Data.ID,
		UserID:       userA.Data.ID,
		Begin:        time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC),
		Duration:     7200,
		Rate:         decimal.NewFromInt(1500000),
		InternalRate: decimal.NewFromInt(600000),
	})
	suite.createTestTimesheet(v1.TimesheetEditable{
		ProjectID:    transit.Data.ID,
		UserID:       userB.Data.ID,
		Begin:        time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC),
		Duration:     3600,
		Rate:         decimal.NewFromInt(500000),
		InternalRate: decimal.NewFromInt(250000),
	})

	suite.createTestCogs(v1.ProjectCogsEditable{
		ProjectID: camry.Data.ID,
		Type:      models.CogsTypeSupplies,
		Amount:    decimal.NewFromInt(100000),
	})

	suite.createTestCostItem(v1.CostItemEditable{
		Name:      "Workshop rent",
		Amount:    decimal.NewFromInt(300000),
		Category:  models.CategoryGeneralAdmin,
		Status:    models.CostStatusActual,
		EntryDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Allocations: []v1.AllocationEditable{
			{TeamID: team.Data.ID, Percentage: decimal.NewFromInt(100)},
		},
	})
}

func (suite *TestSuiteStandard) TestReportsProjects() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/projects?from=2026-05-01&to=2026-05-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectReportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	report := response.Data
	if assert.Len(suite.T(), report.Data, 2) {
		// Sorted by gross profit, highest first
		assert.Equal(suite.T(), "Camry 2020 - brake overhaul", report.Data[0].ProjectName)
		assert.True(suite.T(), report.Data[0].GrossProfit.Equal(decimal.NewFromInt(800000)), "gross profit is %s", report.Data[0].GrossProfit)
		assert.Equal(suite.T(), "Transit 2018 - gearbox", report.Data[1].ProjectName)
	}

	assert.True(suite.T(), report.Totals.Revenue.Equal(decimal.NewFromInt(2000000)), "revenue is %s", report.Totals.Revenue)
	assert.True(suite.T(), report.Totals.TotalCogs.Equal(decimal.NewFromInt(950000)), "total cogs is %s", report.Totals.TotalCogs)
	assert.True(suite.T(), report.Totals.GrossProfit.Equal(decimal.NewFromInt(1050000)), "gross profit is %s", report.Totals.GrossProfit)
	assert.True(suite.T(), report.Totals.GrossMarginPercent.Equal(decimal.NewFromFloat(52.5)), "gross margin is %s", report.Totals.GrossMarginPercent)
}

func (suite *TestSuiteStandard) TestReportsProjectsNameFilter() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/projects?from=2026-05-01&to=2026-05-31&name=*brake*", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectReportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data.Data, 1) {
		assert.Equal(suite.T(), "Camry 2020 - brake overhaul", response.Data.Data[0].ProjectName)
	}

	// Totals only cover what the filter matched
	assert.True(suite.T(), response.Data.Totals.Revenue.Equal(decimal.NewFromInt(1500000)), "revenue is %s", response.Data.Totals.Revenue)
}

func (suite *TestSuiteStandard) TestReportsProjectsOutsideWindow() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/projects?from=2026-07-01&to=2026-07-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.ProjectReportResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Empty(suite.T(), response.Data.Data)
}

func (suite *TestSuiteStandard) TestReportsUsers() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/users?from=2026-05-01&to=2026-05-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.UserReportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	report := response.Data
	if assert.Len(suite.T(), report.Data, 2) {
		// Sorted by net profit, highest first
		assert.Equal(suite.T(), "Taylor Nguyen", report.Data[0].UserName)
		assert.True(suite.T(), report.Data[0].GrossProfitGenerated.Equal(decimal.NewFromInt(800000)), "gross profit generated is %s", report.Data[0].GrossProfitGenerated)
		assert.True(suite.T(), report.Data[0].BreakevenCost.Equal(decimal.NewFromInt(150000)), "breakeven cost is %s", report.Data[0].BreakevenCost)
		assert.True(suite.T(), report.Data[0].NetProfit.Equal(decimal.NewFromInt(650000)), "net profit is %s", report.Data[0].NetProfit)

		assert.Equal(suite.T(), "Robin Okafor", report.Data[1].UserName)
		assert.True(suite.T(), report.Data[1].NetProfit.Equal(decimal.NewFromInt(100000)), "net profit is %s", report.Data[1].NetProfit)
	}

	assert.True(suite.T(), report.Totals.NetProfit.Equal(decimal.NewFromInt(750000)), "total net profit is %s", report.Totals.NetProfit)
	assert.True(suite.T(), report.Totals.NetEfficiencyPercent.Equal(decimal.NewFromInt(350)), "net efficiency is %s", report.Totals.NetEfficiencyPercent)
}

func (suite *TestSuiteStandard) TestReportsTeams() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/teams?from=2026-05-01&to=2026-05-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.TeamReportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data.Data, 1) {
		team := response.Data.Data[0]
		assert.Equal(suite.T(), "Bodywork", team.TeamName)
		assert.True(suite.T(), team.TotalRevenue.Equal(decimal.NewFromInt(2000000)), "revenue is %s", team.TotalRevenue)
		assert.True(suite.T(), team.TotalGrossProfit.Equal(decimal.NewFromInt(1050000)), "gross profit is %s", team.TotalGrossProfit)
		assert.True(suite.T(), team.TotalIndirectCosts.Equal(decimal.NewFromInt(300000)), "indirect costs are %s", team.TotalIndirectCosts)
		assert.True(suite.T(), team.TotalNetProfit.Equal(decimal.NewFromInt(750000)), "net profit is %s", team.TotalNetProfit)
		assert.Equal(suite.T(), 2, team.ProjectCount)
		assert.Equal(suite.T(), 2, team.MemberCount)
	}

	assert.True(suite.T(), response.Data.Totals.TotalNetProfit.Equal(decimal.NewFromInt(750000)), "total net profit is %s", response.Data.Totals.TotalNetProfit)
}

func (suite *TestSuiteStandard) TestReportsDashboard() {
	suite.seedReportData()

	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/dashboard?from=2026-05-01&to=2026-05-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &r)

	var response v1.DashboardResponse
	test.DecodeResponse(suite.T(), &r, &response)

	dashboard := response.Data
	assert.Len(suite.T(), dashboard.TopProjects, 2)
	assert.Len(suite.T(), dashboard.TopUsers, 2)
	assert.Len(suite.T(), dashboard.TopTeams, 1)

	assert.True(suite.T(), dashboard.Totals.Revenue.Equal(decimal.NewFromInt(2000000)), "revenue is %s", dashboard.Totals.Revenue)
	assert.True(suite.T(), dashboard.Totals.GrossProfit.Equal(decimal.NewFromInt(1050000)), "gross profit is %s", dashboard.Totals.GrossProfit)
	assert.True(suite.T(), dashboard.Totals.IndirectCosts.Equal(decimal.NewFromInt(300000)), "indirect costs are %s", dashboard.Totals.IndirectCosts)
	assert.True(suite.T(), dashboard.Totals.NetProfit.Equal(decimal.NewFromInt(750000)), "net profit is %s", dashboard.Totals.NetProfit)
	assert.Equal(suite.T(), 2, dashboard.Totals.ProjectCount)
	assert.Equal(suite.T(), 2, dashboard.Totals.UserCount)
}

func (suite *TestSuiteStandard) TestReportsInvalidDate() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/reports/projects?from=yesterday", "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &r)
}
