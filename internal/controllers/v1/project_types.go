package v1

import (
	"fmt"

	"github.com/garage-ledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectEditable represents all user configurable parameters
type ProjectEditable struct {
	Name         string `json:"name" example:"Camry 2020 - brake overhaul" default:""` // Name of the project
	Note         string `json:"note" example:"Customer waits in the shop" default:""`  // Notes about the project
	VehiclePlate string `json:"vehiclePlate" example:"B 1234 XYZ" default:""`          // License plate of the vehicle worked on
	Archived     bool   `json:"archived" example:"true" default:"false"`               // Is the project archived?
}

func (editable ProjectEditable) model() models.Project {
	return models.Project{
		Name:         editable.Name,
		Note:         editable.Note,
		VehiclePlate: editable.VehiclePlate,
		Archived:     editable.Archived,
	}
}

type ProjectLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/projects/3b1ea324-d438-4419-882a-2fc91d71772f"`                 // The project itself
	Timesheets string `json:"timesheets" example:"https://example.com/api/v1/timesheets?project=3b1ea324-d438-4419-882a-2fc91d71772f"` // Time-tracking records for this project
	Cogs       string `json:"cogs" example:"https://example.com/api/v1/cogs?project=3b1ea324-d438-4419-882a-2fc91d71772f"`             // Direct cost entries for this project
	Workflow   string `json:"workflow" example:"https://example.com/api/v1/projects/3b1ea324-d438-4419-882a-2fc91d71772f/workflow"`    // Workflow stages for this project
}

type Project struct {
	models.DefaultModel
	ProjectEditable
	Links ProjectLinks `json:"links"`

	// These fields are computed
	WorkflowCompletion float64 `json:"workflowCompletion" example:"30"` // Percentage of workflow stages that are done
}

func newProject(c *gin.Context, db *gorm.DB, model models.Project) (Project, error) {
	url := c.GetString(string(models.DBContextURL))

	project := Project{
		DefaultModel: model.DefaultModel,
		ProjectEditable: ProjectEditable{
			Name:         model.Name,
			Note:         model.Note,
			VehiclePlate: model.VehiclePlate,
			Archived:     model.Archived,
		},
		Links: ProjectLinks{
			Self:       fmt.Sprintf("%s/v1/projects/%s", url, model.ID),
			Timesheets: fmt.Sprintf("%s/v1/timesheets?project=%s", url, model.ID),
			Cogs:       fmt.Sprintf("%s/v1/cogs?project=%s", url, model.ID),
			Workflow:   fmt.Sprintf("%s/v1/projects/%s/workflow", url, model.ID),
		},
	}

	completion, err := model.CompletionPercentage(db)
	if err != nil {
		return Project{}, err
	}
	project.WorkflowCompletion = completion

	return project, nil
}

type ProjectListResponse struct {
	Data       []Project   `json:"data"`                                                          // List of Projects
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ProjectCreateResponse struct {
	Data  []ProjectResponse `json:"data"`                                                          // List of the created Projects or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *ProjectCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, ProjectResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ProjectResponse struct {
	Data  *Project `json:"data"`                                                          // Data for the Project
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ProjectQueryFilter struct {
	Name         string `form:"name" filterField:"false"`   // By name
	Note         string `form:"note" filterField:"false"`   // By note
	VehiclePlate string `form:"vehiclePlate"`               // By the license plate of the vehicle
	Archived     bool   `form:"archived"`                   // Is the Project archived?
	Search       string `form:"search" filterField:"false"` // By string in name or note
	Offset       uint   `form:"offset" filterField:"false"` // The offset of the first Project returned. Defaults to 0.
	Limit        int    `form:"limit" filterField:"false"`  // Maximum number of Projects to return. Defaults to 50.
}

func (f ProjectQueryFilter) model() (models.Project, error) {
	return models.Project{
		VehiclePlate: f.VehiclePlate,
		Archived:     f.Archived,
	}, nil
}
