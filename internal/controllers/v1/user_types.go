package v1

import (
	"fmt"

	"github.com/garage-ledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserEditable represents all user configurable parameters.
//
// Enabled is a pointer so that an explicit false is distinguishable
// from the field not being set. A user is enabled unless the request
// says otherwise.
type UserEditable struct {
	Name    string `json:"name" example:"Taylor Nguyen" default:""`     // Name of the user
	Note    string `json:"note" example:"Master technician" default:""` // Notes about the user
	Enabled *bool  `json:"enabled" example:"true" default:"true"`       // Is the user active? Defaults to true. Disabled users are excluded from reports
}

func (editable UserEditable) model() models.User {
	enabled := true
	if editable.Enabled != nil {
		enabled = *editable.Enabled
	}

	return models.User{
		Name:    editable.Name,
		Note:    editable.Note,
		Enabled: enabled,
	}
}

type UserLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/users/d180d195-a2a0-4b86-8b0b-f8b29008578d"`                 // The user itself
	Timesheets string `json:"timesheets" example:"https://example.com/api/v1/timesheets?user=d180d195-a2a0-4b86-8b0b-f8b29008578d"` // Time-tracking records of this user
}

type User struct {
	models.DefaultModel
	UserEditable
	Links UserLinks `json:"links"`

	// These fields are computed
	TeamIDs []string `json:"teamIds"` // IDs of the teams the user is a member of
}

func newUser(c *gin.Context, db *gorm.DB, model models.User) (User, error) {
	url := c.GetString(string(models.DBContextURL))

	user := User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name:    model.Name,
			Note:    model.Note,
			Enabled: &model.Enabled,
		},
		Links: UserLinks{
			Self:       fmt.Sprintf("%s/v1/users/%s", url, model.ID),
			Timesheets: fmt.Sprintf("%s/v1/timesheets?user=%s", url, model.ID),
		},
	}

	teams, err := model.Memberships(db)
	if err != nil {
		return User{}, err
	}

	// When there are no teams, we want an empty list, not null
	user.TeamIDs = make([]string, 0)
	for _, team := range teams {
		user.TeamIDs = append(user.TeamIDs, team.ID.String())
	}

	return user, nil
}

type UserListResponse struct {
	Data       []User      `json:"data"`                                                          // List of Users
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type UserCreateResponse struct {
	Data  []UserResponse `json:"data"`                                                          // List of the created Users or their respective error
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (u *UserCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	u.Data = append(u.Data, UserResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UserResponse struct {
	Data  *User   `json:"data"`                                                          // Data for the User
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type UserQueryFilter struct {
	Name    string `form:"name" filterField:"false"`   // By name
	Note    string `form:"note" filterField:"false"`   // By note
	Enabled bool   `form:"enabled"`                    // Is the user active?
	Search  string `form:"search" filterField:"false"` // By string in name or note
	Offset  uint   `form:"offset" filterField:"false"` // The offset of the first User returned. Defaults to 0.
	Limit   int    `form:"limit" filterField:"false"`  // Maximum number of Users to return. Defaults to 50.
}

func (f UserQueryFilter) model() (models.User, error) {
	return models.User{
		Enabled: f.Enabled,
	}, nil
}
