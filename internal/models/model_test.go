package models_test

import (
	"errors"
	"time"

	"github.com/garage-ledger/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestProjectTrimWhitespace() {
	name := "Corolla 2018 - full respray"
	note := "Customer wants OEM color"

	project := suite.createTestProject(models.Project{Name: " " + name + "  ", Note: note + " "})
	suite.Assert().Equal(name, project.Name)
	suite.Assert().Equal(note, project.Note)
}

func (suite *TestSuiteStandard) TestProjectNameNotUnique() {
	suite.createTestProject(models.Project{Name: "Unique"})

	err := models.DB.Create(&models.Project{Name: "Unique"}).Error
	suite.Assert().True(errors.Is(err, models.ErrProjectNameNotUnique), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestUserNameNotUnique() {
	suite.createTestUser(models.User{Name: "Sam"})

	err := models.DB.Create(&models.User{Name: "Sam"}).Error
	suite.Assert().True(errors.Is(err, models.ErrUserNameNotUnique), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestTeamNameNotUnique() {
	suite.createTestTeam(models.Team{Name: "Paint"})

	err := models.DB.Create(&models.Team{Name: "Paint"}).Error
	suite.Assert().True(errors.Is(err, models.ErrTeamNameNotUnique), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestTimesheetNegativeDuration() {
	project := suite.createTestProject(models.Project{})
	user := suite.createTestUser(models.User{})

	err := models.DB.Create(&models.Timesheet{
		ProjectID: project.ID,
		UserID:    user.ID,
		Begin:     mayDate(1, 8),
		Duration:  -3600,
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrTimesheetDurationNeg), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestTimesheetUnknownProject() {
	user := suite.createTestUser(models.User{})

	err := models.DB.Create(&models.Timesheet{
		ProjectID: uuid.New(),
		UserID:    user.ID,
		Begin:     mayDate(1, 8),
		Duration:  3600,
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestTimesheetBeginUTC() {
	project := suite.createTestProject(models.Project{})
	user := suite.createTestUser(models.User{})

	timesheet := suite.createTestTimesheet(models.Timesheet{
		ProjectID: project.ID,
		UserID:    user.ID,
		Begin:     time.Date(2023, 5, 2, 10, 0, 0, 0, time.FixedZone("UTC+2", 2*3600)),
		Duration:  3600,
	})

	var reloaded models.Timesheet
	suite.Assert().Nil(models.DB.First(&reloaded, timesheet.ID).Error)
	suite.Assert().Equal(time.UTC, reloaded.Begin.Location())
	suite.Assert().True(reloaded.Begin.Equal(mayDate(2, 8)))
}

func (suite *TestSuiteStandard) TestProjectDeleteCascades() {
	project := suite.createTestProject(models.Project{})
	user := suite.createTestUser(models.User{})

	suite.createTestTimesheet(models.Timesheet{
		ProjectID: project.ID,
		UserID:    user.ID,
		Begin:     mayDate(1, 8),
		Duration:  3600,
	})
	suite.createTestProjectCogs(models.ProjectCogs{
		ProjectID: project.ID,
		Amount:    decimal.NewFromInt(100),
	})
	suite.Assert().Nil(models.InitializeWorkflow(models.DB, project))

	suite.Assert().Nil(models.DB.Delete(&project).Error)

	var timesheets, cogs, stages int64
	suite.Assert().Nil(models.DB.Model(&models.Timesheet{}).Count(&timesheets).Error)
	suite.Assert().Nil(models.DB.Model(&models.ProjectCogs{}).Count(&cogs).Error)
	suite.Assert().Nil(models.DB.Model(&models.WorkflowStage{}).Count(&stages).Error)
	suite.Assert().Zero(timesheets)
	suite.Assert().Zero(cogs)
	suite.Assert().Zero(stages)
}

func (suite *TestSuiteStandard) TestProjectCogsInvalidType() {
	project := suite.createTestProject(models.Project{})

	err := models.DB.Create(&models.ProjectCogs{
		ProjectID: project.ID,
		Type:      models.CogsType("LABOR"),
		Amount:    decimal.NewFromInt(100),
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrCogsTypeInvalid), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestTeamMemberKeepsUserID() {
	user := suite.createTestUser(models.User{})
	id := user.ID

	team := suite.createTestTeam(models.Team{}, user)

	// The association upsert runs BeforeCreate again and must
	// not re-key the existing user
	suite.Assert().Equal(id, user.ID)

	members, err := team.Users(models.DB)
	suite.Assert().Nil(err)
	if suite.Assert().Len(members, 1) {
		suite.Assert().Equal(id, members[0].ID)
	}
}

func (suite *TestSuiteStandard) TestTeamMemberCount() {
	alice := suite.createTestUser(models.User{})
	bob := suite.createTestUser(models.User{})
	team := suite.createTestTeam(models.Team{}, alice, bob)

	suite.Assert().Equal(int64(2), team.MemberCount(models.DB))
}

func (suite *TestSuiteStandard) TestResourceNotFoundMessage() {
	err := models.DB.First(&models.Project{}, uuid.New()).Error
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound))
	suite.Assert().Contains(err.Error(), "there is no project matching your query")
}
