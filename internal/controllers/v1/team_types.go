package v1

import (
	"fmt"

	"github.com/garage-ledger/backend/internal/models"
	gl_uuid "github.com/garage-ledger/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamEditable represents all user configurable parameters
type TeamEditable struct {
	Name string `json:"name" example:"Bodywork" default:""`                 // Name of the team
	Note string `json:"note" example:"Dent repair and painting" default:""` // Notes about the team
}

func (editable TeamEditable) model() models.Team {
	return models.Team{
		Name: editable.Name,
		Note: editable.Note,
	}
}

// TeamMemberEditable is the body for adding a member to a team.
type TeamMemberEditable struct {
	UserID uuid.UUID `json:"userId" binding:"required" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"` // ID of the user to add
}

type URIMember struct {
	URIID
	UserID gl_uuid.UUID `uri:"userId" binding:"required" format:"UUID"` // ID of the user
}

type TeamLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/teams/7e65bbc1-ae96-4ff2-9e0a-f5554aebe0a9"`            // The team itself
	Members string `json:"members" example:"https://example.com/api/v1/teams/7e65bbc1-ae96-4ff2-9e0a-f5554aebe0a9/members"` // Member management for this team
}

type TeamMember struct {
	ID   uuid.UUID `json:"id" example:"d180d195-a2a0-4b86-8b0b-f8b29008578d"` // ID of the user
	Name string    `json:"name" example:"Taylor Nguyen"`                      // Name of the user
}

type Team struct {
	models.DefaultModel
	TeamEditable
	Links TeamLinks `json:"links"`

	// These fields are computed
	Members []TeamMember `json:"members"` // Users that are members of the team
}

func newTeam(c *gin.Context, db *gorm.DB, model models.Team) (Team, error) {
	url := c.GetString(string(models.DBContextURL))

	team := Team{
		DefaultModel: model.DefaultModel,
		TeamEditable: TeamEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: TeamLinks{
			Self:    fmt.Sprintf("%s/v1/teams/%s", url, model.ID),
			Members: fmt.Sprintf("%s/v1/teams/%s/members", url, model.ID),
		},
	}

	users, err := model.Users(db)
	if err != nil {
		return Team{}, err
	}

	// When there are no members, we want an empty list, not null
	team.Members = make([]TeamMember, 0)
	for _, user := range users {
		team.Members = append(team.Members, TeamMember{ID: user.ID, Name: user.Name})
	}

	return team, nil
}

type TeamListResponse struct {
	Data       []Team      `json:"data"`                                                          // List of Teams
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type TeamCreateResponse struct {
	Data  []TeamResponse `json:"data"`                                                          // List of the created Teams or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (t *TeamCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TeamResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TeamResponse struct {
	Data  *Team   `json:"data"`                                                          // Data for the Team
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TeamQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Team returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Teams to return. Defaults to 50.
}

func (f TeamQueryFilter) model() (models.Team, error) {
	return models.Team{}, nil
}
