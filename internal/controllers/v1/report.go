package v1

import (
	"net/http"
	"sort"
	"time"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

// ReportQueryFilter is the filter for all report endpoints.
type ReportQueryFilter struct {
	From time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"` // First day of the reporting window
	To   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`   // Last day of the reporting window
	Name string    `form:"name"`                                       // Glob pattern matched against the resource name, e.g. "Camry*"
}

// period returns the reporting window for the filter. Without any
// bounds the window is the current calendar month, a partial window
// stays open on the unset side.
func (f ReportQueryFilter) period() types.Period {
	if f.From.IsZero() && f.To.IsZero() {
		return types.MonthOf(time.Now())
	}

	period := types.Period{From: f.From}
	if !f.To.IsZero() {
		period.To = types.EndOfDay(f.To)
	}

	return period
}

type ProjectReport struct {
	Period types.Period             `json:"period"` // The reporting window
	Totals ProjectReportTotals      `json:"totals"` // Sums over all listed projects
	Data   []models.ProjectGrossPnl `json:"data"`   // Per project statements, highest gross profit first
}

type ProjectReportTotals struct {
	Revenue            decimal.Decimal `json:"revenue" example:"4200000"`          // Total revenue of all listed projects
	TotalCogs          decimal.Decimal `json:"totalCogs" example:"2500000"`        // Total cost of goods sold of all listed projects
	GrossProfit        decimal.Decimal `json:"grossProfit" example:"1700000"`      // Total gross profit of all listed projects
	GrossMarginPercent decimal.Decimal `json:"grossMarginPercent" example:"40.48"` // Gross profit as a percentage of revenue, 0 without revenue
}

type ProjectReportResponse struct {
	Data  *ProjectReport `json:"data"`                                                    // The report
	Error *string        `json:"error" example:"there is no project matching your query"` // The error, if any occurred
}

type UserReport struct {
	Period types.Period        `json:"period"` // The reporting window
	Totals UserReportTotals    `json:"totals"` // Sums over all listed users
	Data   []models.UserNetPnl `json:"data"`   // Per user statements, highest net profit first
}

type UserReportTotals struct {
	GrossProfitGenerated decimal.Decimal `json:"grossProfitGenerated" example:"1700000"` // Total gross profit generated by all listed users
	BreakevenCost        decimal.Decimal `json:"breakevenCost" example:"900000"`         // Total breakeven cost of all listed users
	NetProfit            decimal.Decimal `json:"netProfit" example:"800000"`             // Total net profit of all listed users
	NetEfficiencyPercent decimal.Decimal `json:"netEfficiencyPercent" example:"188.89"`  // Gross profit generated as a percentage of breakeven cost, 0 without breakeven cost
}

type UserReportResponse struct {
	Data  *UserReport `json:"data"`                                                 // The report
	Error *string     `json:"error" example:"there is no user matching your query"` // The error, if any occurred
}

type TeamReport struct {
	Period types.Period     `json:"period"` // The reporting window
	Totals TeamReportTotals `json:"totals"` // Sums over all listed teams
	Data   []models.TeamPnl `json:"data"`   // Per team statements, highest net profit first
}

type TeamReportTotals struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue" example:"4200000"`      // Total revenue of all listed teams
	TotalGrossProfit   decimal.Decimal `json:"totalGrossProfit" example:"1700000"`  // Total gross profit of all listed teams
	TotalIndirectCosts decimal.Decimal `json:"totalIndirectCosts" example:"900000"` // Total indirect costs of all listed teams
	TotalNetProfit     decimal.Decimal `json:"totalNetProfit" example:"800000"`     // Total net profit of all listed teams
}

type TeamReportResponse struct {
	Data  *TeamReport `json:"data"`                                                 // The report
	Error *string     `json:"error" example:"there is no team matching your query"` // The error, if any occurred
}

// Dashboard is a summary over the reporting window with the five best
// performing projects, users and teams.
type Dashboard struct {
	Period      types.Period             `json:"period"`      // The reporting window
	TopProjects []models.ProjectGrossPnl `json:"topProjects"` // Up to five projects with the highest gross profit
	TopUsers    []models.UserNetPnl      `json:"topUsers"`    // Up to five users with the highest net profit
	TopTeams    []models.TeamPnl         `json:"topTeams"`    // Up to five teams with the highest net profit
	Totals      DashboardTotals          `json:"totals"`      // Sums over everything in the window
}

type DashboardTotals struct {
	Revenue       decimal.Decimal `json:"revenue" example:"4200000"`      // Total revenue in the window
	GrossProfit   decimal.Decimal `json:"grossProfit" example:"1700000"`  // Total gross profit in the window
	IndirectCosts decimal.Decimal `json:"indirectCosts" example:"900000"` // Total indirect costs allocated in the window
	NetProfit     decimal.Decimal `json:"netProfit" example:"800000"`     // Gross profit minus indirect costs
	ProjectCount  int             `json:"projectCount" example:"4"`       // Number of projects with activity in the window
	UserCount     int             `json:"userCount" example:"3"`          // Number of users with activity in the window
}

type DashboardResponse struct {
	Data  *Dashboard `json:"data"`                                            // The dashboard
	Error *string    `json:"error" example:"an error occurred on the server"` // The error, if any occurred
}

// RegisterReportRoutes registers the routes for reports with
// the RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/projects", OptionsReports)
	r.GET("/projects", GetProjectReport)
	r.OPTIONS("/users", OptionsReports)
	r.GET("/users", GetUserReport)
	r.OPTIONS("/teams", OptionsReports)
	r.GET("/teams", GetTeamReport)
	r.OPTIONS("/dashboard", OptionsReports)
	r.GET("/dashboard", GetDashboard)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/projects [options]
func OptionsReports(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Project profit report
// @Description	Returns the gross profit statement for every project with activity in the window
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	ProjectReportResponse
// @Failure		400	{object}	ProjectReportResponse
// @Failure		500	{object}	ProjectReportResponse
// @Router			/v1/reports/projects [get]
// @Param			from	query	string	false	"First day of the window (YYYY-MM-DD). Defaults to the first day of the current month"
// @Param			to		query	string	false	"Last day of the window (YYYY-MM-DD). Defaults to the last day of the current month"
// @Param			name	query	string	false	"Glob pattern matched against the project name"
func GetProjectReport(c *gin.Context) {
	var filter ReportQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ProjectReportResponse{
			Error: &s,
		})
		return
	}

	period := filter.period()
	pnls, err := models.AllProjectsGrossPnl(c.Request.Context(), models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectReportResponse{
			Error: &s,
		})
		return
	}

	report := ProjectReport{
		Period: period,
		Data:   make([]models.ProjectGrossPnl, 0, len(pnls)),
	}

	for _, pnl := range pnls {
		if filter.Name != "" && !glob.Glob(filter.Name, pnl.ProjectName) {
			continue
		}

		report.Totals.Revenue = report.Totals.Revenue.Add(pnl.Revenue)
		report.Totals.TotalCogs = report.Totals.TotalCogs.Add(pnl.TotalCogs)
		report.Totals.GrossProfit = report.Totals.GrossProfit.Add(pnl.GrossProfit)
		report.Data = append(report.Data, pnl)
	}

	if report.Totals.Revenue.IsPositive() {
		report.Totals.GrossMarginPercent = report.Totals.GrossProfit.Div(report.Totals.Revenue).Mul(decimal.NewFromInt(100))
	}

	sort.SliceStable(report.Data, func(i, j int) bool {
		return report.Data[i].GrossProfit.GreaterThan(report.Data[j].GrossProfit)
	})

	c.JSON(http.StatusOK, ProjectReportResponse{Data: &report})
}

// @Summary		User profit report
// @Description	Returns the net profit statement for every enabled user with activity in the window
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	UserReportResponse
// @Failure		400	{object}	UserReportResponse
// @Failure		500	{object}	UserReportResponse
// @Router			/v1/reports/users [get]
// @Param			from	query	string	false	"First day of the window (YYYY-MM-DD). Defaults to the first day of the current month"
// @Param			to		query	string	false	"Last day of the window (YYYY-MM-DD). Defaults to the last day of the current month"
// @Param			name	query	string	false	"Glob pattern matched against the user name"
func GetUserReport(c *gin.Context) {
	var filter ReportQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, UserReportResponse{
			Error: &s,
		})
		return
	}

	period := filter.period()
	pnls, err := models.AllUsersNetPnl(c.Request.Context(), models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserReportResponse{
			Error: &s,
		})
		return
	}

	report := UserReport{
		Period: period,
		Data:   make([]models.UserNetPnl, 0, len(pnls)),
	}

	for _, pnl := range pnls {
		if filter.Name != "" && !glob.Glob(filter.Name, pnl.UserName) {
			continue
		}

		report.Totals.GrossProfitGenerated = report.Totals.GrossProfitGenerated.Add(pnl.GrossProfitGenerated)
		report.Totals.BreakevenCost = report.Totals.BreakevenCost.Add(pnl.BreakevenCost)
		report.Totals.NetProfit = report.Totals.NetProfit.Add(pnl.NetProfit)
		report.Data = append(report.Data, pnl)
	}

	if report.Totals.BreakevenCost.IsPositive() {
		report.Totals.NetEfficiencyPercent = report.Totals.GrossProfitGenerated.Div(report.Totals.BreakevenCost).Mul(decimal.NewFromInt(100))
	}

	sort.SliceStable(report.Data, func(i, j int) bool {
		return report.Data[i].NetProfit.GreaterThan(report.Data[j].NetProfit)
	})

	c.JSON(http.StatusOK, UserReportResponse{Data: &report})
}

// @Summary		Team profit report
// @Description	Returns the profit statement for every team
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	TeamReportResponse
// @Failure		400	{object}	TeamReportResponse
// @Failure		500	{object}	TeamReportResponse
// @Router			/v1/reports/teams [get]
// @Param			from	query	string	false	"First day of the window (YYYY-MM-DD). Defaults to the first day of the current month"
// @Param			to		query	string	false	"Last day of the window (YYYY-MM-DD). Defaults to the last day of the current month"
// @Param			name	query	string	false	"Glob pattern matched against the team name"
func GetTeamReport(c *gin.Context) {
	var filter ReportQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TeamReportResponse{
			Error: &s,
		})
		return
	}

	period := filter.period()
	pnls, err := models.AllTeamsPnl(c.Request.Context(), models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TeamReportResponse{
			Error: &s,
		})
		return
	}

	report := TeamReport{
		Period: period,
		Data:   make([]models.TeamPnl, 0, len(pnls)),
	}

	for _, pnl := range pnls {
		if filter.Name != "" && !glob.Glob(filter.Name, pnl.TeamName) {
			continue
		}

		report.Totals.TotalRevenue = report.Totals.TotalRevenue.Add(pnl.TotalRevenue)
		report.Totals.TotalGrossProfit = report.Totals.TotalGrossProfit.Add(pnl.TotalGrossProfit)
		report.Totals.TotalIndirectCosts = report.Totals.TotalIndirectCosts.Add(pnl.TotalIndirectCosts)
		report.Totals.TotalNetProfit = report.Totals.TotalNetProfit.Add(pnl.TotalNetProfit)
		report.Data = append(report.Data, pnl)
	}

	sort.SliceStable(report.Data, func(i, j int) bool {
		return report.Data[i].TotalNetProfit.GreaterThan(report.Data[j].TotalNetProfit)
	})

	c.JSON(http.StatusOK, TeamReportResponse{Data: &report})
}

// @Summary		Dashboard
// @Description	Returns the best performing projects, users and teams and the overall totals for the window
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	DashboardResponse
// @Failure		400	{object}	DashboardResponse
// @Failure		500	{object}	DashboardResponse
// @Router			/v1/reports/dashboard [get]
// @Param			from	query	string	false	"First day of the window (YYYY-MM-DD). Defaults to the first day of the current month"
// @Param			to		query	string	false	"Last day of the window (YYYY-MM-DD). Defaults to the last day of the current month"
func GetDashboard(c *gin.Context) {
	var filter ReportQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, DashboardResponse{
			Error: &s,
		})
		return
	}

	period := filter.period()
	ctx := c.Request.Context()

	projects, err := models.AllProjectsGrossPnl(ctx, models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	users, err := models.AllUsersNetPnl(ctx, models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	teams, err := models.AllTeamsPnl(ctx, models.DB, period)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	dashboard := Dashboard{
		Period: period,
		Totals: DashboardTotals{
			ProjectCount: len(projects),
			UserCount:    len(users),
		},
	}

	for _, pnl := range projects {
		dashboard.Totals.Revenue = dashboard.Totals.Revenue.Add(pnl.Revenue)
		dashboard.Totals.GrossProfit = dashboard.Totals.GrossProfit.Add(pnl.GrossProfit)
	}

	for _, pnl := range users {
		dashboard.Totals.IndirectCosts = dashboard.Totals.IndirectCosts.Add(pnl.BreakevenCost)
	}
	dashboard.Totals.NetProfit = dashboard.Totals.GrossProfit.Sub(dashboard.Totals.IndirectCosts)

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].GrossProfit.GreaterThan(projects[j].GrossProfit)
	})
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].NetProfit.GreaterThan(users[j].NetProfit)
	})
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].TotalNetProfit.GreaterThan(teams[j].TotalNetProfit)
	})

	dashboard.TopProjects = topN(projects, 5)
	dashboard.TopUsers = topN(users, 5)
	dashboard.TopTeams = topN(teams, 5)

	c.JSON(http.StatusOK, DashboardResponse{Data: &dashboard})
}

// topN returns the first n elements of the sorted slice, or all of
// them if there are fewer.
func topN[T any](sorted []T, n int) []T {
	if len(sorted) < n {
		n = len(sorted)
	}

	return sorted[:n:n]
}
