package models

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garage-ledger/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectGrossPnl is the gross profit and loss statement for a single
// project over a reporting period.
type ProjectGrossPnl struct {
	ProjectID          uuid.UUID       `json:"projectId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	ProjectName        string          `json:"projectName" example:"Camry 2020 - brake overhaul"`
	Revenue            decimal.Decimal `json:"revenue" example:"1500000"`
	LaborCost          decimal.Decimal `json:"laborCost" example:"600000"`
	SuppliesCost       decimal.Decimal `json:"suppliesCost" example:"100000"`
	TotalCogs          decimal.Decimal `json:"totalCogs" example:"700000"`
	GrossProfit        decimal.Decimal `json:"grossProfit" example:"800000"`
	GrossMarginPercent decimal.Decimal `json:"grossMarginPercent" example:"53.33"`
}

// UserNetPnl is the net profit and loss statement for a single user
// over a reporting period.
type UserNetPnl struct {
	UserID               uuid.UUID       `json:"userId" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"`
	UserName             string          `json:"userName" example:"Taylor Nguyen"`
	Period               types.Period    `json:"period"`
	GrossProfitGenerated decimal.Decimal `json:"grossProfitGenerated" example:"800000"`
	BreakevenCost        decimal.Decimal `json:"breakevenCost" example:"350000"`
	NetProfit            decimal.Decimal `json:"netProfit" example:"450000"`
	NetEfficiencyPercent decimal.Decimal `json:"netEfficiencyPercent" example:"228.57"`
}

// TeamPnl is the profit and loss statement for a team over a
// reporting period.
type TeamPnl struct {
	TeamID                 uuid.UUID       `json:"teamId" example:"7e65bbc1-ae96-4ff2-9e0a-f5554aebe0a9"`
	TeamName               string          `json:"teamName" example:"Bodywork"`
	Period                 types.Period    `json:"period"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue" example:"4200000"`
	TotalGrossProfit       decimal.Decimal `json:"totalGrossProfit" example:"1700000"`
	TotalIndirectCosts     decimal.Decimal `json:"totalIndirectCosts" example:"900000"`
	TotalNetProfit         decimal.Decimal `json:"totalNetProfit" example:"800000"`
	ProjectCount           int             `json:"projectCount" example:"4"`
	MemberCount            int             `json:"memberCount" example:"3"`
	AvgNetProfitPerMember  decimal.Decimal `json:"avgNetProfitPerMember" example:"266666.67"`
	AvgNetProfitPerProject decimal.Decimal `json:"avgNetProfitPerProject" example:"200000"`
}

var hundred = decimal.NewFromInt(100)

// windowed limits the query to records whose column falls into the
// period. The bounds are applied independently so that a one-sided
// window stays open on the unset side.
func windowed(q *gorm.DB, column string, period types.Period) *gorm.DB {
	if !period.From.IsZero() {
		q = q.Where(column+" >= ?", period.From)
	}

	if !period.To.IsZero() {
		q = q.Where(column+" <= ?", period.To)
	}

	return q
}

// sumTimesheets sums one decimal column over the timesheets of a
// project, limited to records whose begin time falls into the period.
func sumTimesheets(db *gorm.DB, column string, projectID uuid.UUID, period types.Period) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	q := windowed(db.Model(&Timesheet{}).Where("project_id = ?", projectID), "begin", period)

	err := q.Select(fmt.Sprintf("SUM(%s)", column)).Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing %s for project %s failed: %w", column, projectID, err)
	}

	return sum.Decimal, nil
}

// Revenue returns the billed amounts for all time-tracking records of
// the project in the period.
func (p Project) Revenue(db *gorm.DB, period types.Period) (decimal.Decimal, error) {
	return sumTimesheets(db, "rate", p.ID, period)
}

// LaborCost returns the internal cost of all time-tracking records of
// the project in the period.
func (p Project) LaborCost(db *gorm.DB, period types.Period) (decimal.Decimal, error) {
	return sumTimesheets(db, "internal_rate", p.ID, period)
}

// SuppliesCost returns the sum of all direct cost entries of the
// project. Supplies are booked against the whole project, so they are
// never filtered by period.
func (p Project) SuppliesCost(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&ProjectCogs{}).
		Where("project_id = ?", p.ID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing COGS for project %s failed: %w", p.ID, err)
	}

	return sum.Decimal, nil
}

// GrossPnl computes the gross profit statement for the project.
//
// Revenue and labor cost are limited to the period, supplies are not.
// The margin is 0, not an error, for a project without revenue.
func (p Project) GrossPnl(db *gorm.DB, period types.Period) (ProjectGrossPnl, error) {
	revenue, err := p.Revenue(db, period)
	if err != nil {
		return ProjectGrossPnl{}, err
	}

	laborCost, err := p.LaborCost(db, period)
	if err != nil {
		return ProjectGrossPnl{}, err
	}

	suppliesCost, err := p.SuppliesCost(db)
	if err != nil {
		return ProjectGrossPnl{}, err
	}

	totalCogs := laborCost.Add(suppliesCost)
	grossProfit := revenue.Sub(totalCogs)

	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = grossProfit.Div(revenue).Mul(hundred)
	}

	return ProjectGrossPnl{
		ProjectID:          p.ID,
		ProjectName:        p.Name,
		Revenue:            revenue,
		LaborCost:          laborCost,
		SuppliesCost:       suppliesCost,
		TotalCogs:          totalCogs,
		GrossProfit:        grossProfit,
		GrossMarginPercent: margin,
	}, nil
}

// sumDurations sums timesheet durations on a project in the period,
// optionally limited to a single user.
func sumDurations(db *gorm.DB, projectID uuid.UUID, userID *uuid.UUID, period types.Period) (int64, error) {
	var sum sql.NullInt64

	q := db.Model(&Timesheet{}).Where("project_id = ?", projectID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	q = windowed(q, "begin", period)

	err := q.Select("SUM(duration)").Row().Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing durations for project %s failed: %w", projectID, err)
	}

	return sum.Int64, nil
}

// ContributionRatio returns the user's share of the total time logged
// on the project in the period, as a value between 0 and 1. It is 0
// when no time was logged on the project at all.
func (u User) ContributionRatio(db *gorm.DB, project Project, period types.Period) (decimal.Decimal, error) {
	userDuration, err := sumDurations(db, project.ID, &u.ID, period)
	if err != nil {
		return decimal.Zero, err
	}

	totalDuration, err := sumDurations(db, project.ID, nil, period)
	if err != nil {
		return decimal.Zero, err
	}

	if totalDuration == 0 {
		return decimal.Zero, nil
	}

	return decimal.NewFromInt(userDuration).Div(decimal.NewFromInt(totalDuration)), nil
}

// ProjectsInPeriod returns the distinct projects the user logged time
// on within the period.
func (u User) ProjectsInPeriod(db *gorm.DB, period types.Period) ([]Project, error) {
	var projects []Project

	q := db.Model(&Project{}).
		Distinct("projects.*").
		Joins("JOIN timesheets ON timesheets.project_id = projects.id").
		Where("timesheets.user_id = ?", u.ID)
	q = windowed(q, "timesheets.begin", period)

	err := q.Find(&projects).Error
	return projects, err
}

// GrossProfitGenerated attributes project gross profits to the user:
// for every project the user worked on in the period, the project's
// gross profit is weighted by the user's contribution ratio.
func (u User) GrossProfitGenerated(db *gorm.DB, period types.Period) (decimal.Decimal, error) {
	projects, err := u.ProjectsInPeriod(db, period)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, project := range projects {
		pnl, err := project.GrossPnl(db, period)
		if err != nil {
			return decimal.Zero, err
		}

		ratio, err := u.ContributionRatio(db, project, period)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(pnl.GrossProfit.Mul(ratio))
	}

	return total, nil
}

// AllocatedCosts returns the indirect costs allocated to the team in
// the period: the sum of cost item amount times allocation percentage
// over all allocations targeting the team, for cost items whose entry
// date falls into the period.
//
// Actual entries are ranked ahead of forecast entries before
// aggregation. The ranking is explicit, it does not rely on the
// string order of the status values. Note that forecast rows are not
// excluded when an actual row exists: every matching row contributes
// to the sum.
func (t Team) AllocatedCosts(db *gorm.DB, period types.Period) (decimal.Decimal, error) {
	var allocations []CostAllocation

	q := db.
		Joins("CostItem").
		Where("cost_allocations.team_id = ?", t.ID)
	q = windowed(q, "CostItem.entry_date", period)
	q = q.Order("CASE CostItem.status WHEN 'actual' THEN 0 ELSE 1 END ASC")

	err := q.Find(&allocations).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading allocations for team %s failed: %w", t.ID, err)
	}

	total := decimal.Zero
	for _, allocation := range allocations {
		total = total.Add(allocation.AllocatedAmount())
	}

	return total, nil
}

// BreakevenCost returns the user's share of the indirect costs
// allocated to their teams in the period. Each team's allocated cost
// is split equally per member, not by contribution ratio. A user
// without teams has a breakeven cost of 0.
func (u User) BreakevenCost(db *gorm.DB, period types.Period) (decimal.Decimal, error) {
	teams, err := u.Memberships(db)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, team := range teams {
		costs, err := team.AllocatedCosts(db, period)
		if err != nil {
			return decimal.Zero, err
		}

		members := team.MemberCount(db)
		if members > 0 {
			total = total.Add(costs.Div(decimal.NewFromInt(members)))
		}
	}

	return total, nil
}

// NetPnl computes the net profit statement for the user: the gross
// profit they generated minus their share of allocated indirect
// costs. Efficiency is 0, not an error, without breakeven cost.
func (u User) NetPnl(db *gorm.DB, period types.Period) (UserNetPnl, error) {
	grossProfit, err := u.GrossProfitGenerated(db, period)
	if err != nil {
		return UserNetPnl{}, err
	}

	breakeven, err := u.BreakevenCost(db, period)
	if err != nil {
		return UserNetPnl{}, err
	}

	efficiency := decimal.Zero
	if breakeven.IsPositive() {
		efficiency = grossProfit.Div(breakeven).Mul(hundred)
	}

	return UserNetPnl{
		UserID:               u.ID,
		UserName:             u.Name,
		Period:               period,
		GrossProfitGenerated: grossProfit,
		BreakevenCost:        breakeven,
		NetProfit:            grossProfit.Sub(breakeven),
		NetEfficiencyPercent: efficiency,
	}, nil
}

// Pnl computes the profit statement for the team.
//
// Gross profit and indirect costs are the sums of the members' net
// statements. Revenue is computed over the distinct union of the
// projects any member touched in the period, so that a project worked
// on by several members is only counted once.
func (t Team) Pnl(db *gorm.DB, period types.Period) (TeamPnl, error) {
	members, err := t.Users(db)
	if err != nil {
		return TeamPnl{}, err
	}

	var (
		totalGrossProfit   = decimal.Zero
		totalIndirectCosts = decimal.Zero
		totalRevenue       = decimal.Zero
	)
	seen := make(map[uuid.UUID]bool)

	for _, member := range members {
		memberPnl, err := member.NetPnl(db, period)
		if err != nil {
			return TeamPnl{}, err
		}

		totalGrossProfit = totalGrossProfit.Add(memberPnl.GrossProfitGenerated)
		totalIndirectCosts = totalIndirectCosts.Add(memberPnl.BreakevenCost)

		projects, err := member.ProjectsInPeriod(db, period)
		if err != nil {
			return TeamPnl{}, err
		}

		for _, project := range projects {
			if seen[project.ID] {
				continue
			}
			seen[project.ID] = true

			revenue, err := project.Revenue(db, period)
			if err != nil {
				return TeamPnl{}, err
			}
			totalRevenue = totalRevenue.Add(revenue)
		}
	}

	netProfit := totalGrossProfit.Sub(totalIndirectCosts)

	avgPerMember := decimal.Zero
	if len(members) > 0 {
		avgPerMember = netProfit.Div(decimal.NewFromInt(int64(len(members))))
	}

	avgPerProject := decimal.Zero
	if len(seen) > 0 {
		avgPerProject = netProfit.Div(decimal.NewFromInt(int64(len(seen))))
	}

	return TeamPnl{
		TeamID:                 t.ID,
		TeamName:               t.Name,
		Period:                 period,
		TotalRevenue:           totalRevenue,
		TotalGrossProfit:       totalGrossProfit,
		TotalIndirectCosts:     totalIndirectCosts,
		TotalNetProfit:         netProfit,
		ProjectCount:           len(seen),
		MemberCount:            len(members),
		AvgNetProfitPerMember:  avgPerMember,
		AvgNetProfitPerProject: avgPerProject,
	}, nil
}

// AllProjectsGrossPnl computes the gross profit statement for every
// project with at least one time-tracking record in the period,
// ordered by project name.
//
// The per-project computations are independent, so the loop honors
// context cancellation between iterations.
func AllProjectsGrossPnl(ctx context.Context, db *gorm.DB, period types.Period) ([]ProjectGrossPnl, error) {
	var projects []Project

	q := db.Model(&Project{}).
		Distinct("projects.*").
		Joins("JOIN timesheets ON timesheets.project_id = projects.id").
		Order("projects.name ASC")
	q = windowed(q, "timesheets.begin", period)

	err := q.Find(&projects).Error
	if err != nil {
		return nil, err
	}

	results := make([]ProjectGrossPnl, 0, len(projects))
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pnl, err := project.GrossPnl(db, period)
		if err != nil {
			return nil, err
		}
		results = append(results, pnl)
	}

	return results, nil
}

// AllUsersNetPnl computes the net profit statement for every enabled
// user with at least one time-tracking record in the period, ordered
// by user name.
func AllUsersNetPnl(ctx context.Context, db *gorm.DB, period types.Period) ([]UserNetPnl, error) {
	var users []User

	q := db.Model(&User{}).
		Distinct("users.*").
		Joins("JOIN timesheets ON timesheets.user_id = users.id").
		Where("users.enabled").
		Order("users.name ASC")
	q = windowed(q, "timesheets.begin", period)

	err := q.Find(&users).Error
	if err != nil {
		return nil, err
	}

	results := make([]UserNetPnl, 0, len(users))
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pnl, err := user.NetPnl(db, period)
		if err != nil {
			return nil, err
		}
		results = append(results, pnl)
	}

	return results, nil
}

// AllTeamsPnl computes the profit statement for every team. Teams are
// not filtered by activity: a team without any logged time in the
// period reports zeros.
func AllTeamsPnl(ctx context.Context, db *gorm.DB, period types.Period) ([]TeamPnl, error) {
	var teams []Team

	err := db.Find(&teams).Error
	if err != nil {
		return nil, err
	}

	results := make([]TeamPnl, 0, len(teams))
	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pnl, err := team.Pnl(db, period)
		if err != nil {
			return nil, err
		}
		results = append(results, pnl)
	}

	return results, nil
}
