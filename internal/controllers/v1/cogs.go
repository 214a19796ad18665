package v1

import (
	"fmt"
	"net/http"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	gl_uuid "github.com/garage-ledger/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// ProjectCogsEditable represents all user configurable parameters
type ProjectCogsEditable struct {
	ProjectID   uuid.UUID       `json:"projectId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the project the cost belongs to
	Type        models.CogsType `json:"type" example:"SUPPLIES" default:"SUPPLIES"`               // Type of the direct cost
	Description string          `json:"description" example:"brake pads and fluid" default:""`    // Description of the cost
	Amount      decimal.Decimal `json:"amount" example:"100000"`                                  // Amount of the cost
}

func (editable ProjectCogsEditable) model() models.ProjectCogs {
	return models.ProjectCogs{
		ProjectID:   editable.ProjectID,
		Type:        editable.Type,
		Description: editable.Description,
		Amount:      editable.Amount,
	}
}

type ProjectCogsLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/cogs/ec6891cb-851e-4a90-9dd8-547dbb0b6e7a"`        // The cost entry itself
	Project string `json:"project" example:"https://example.com/api/v1/projects/65392deb-5e92-4268-b114-297faad6cdce"` // The project the cost belongs to
}

type ProjectCogsResource struct {
	models.DefaultModel
	ProjectCogsEditable
	Links ProjectCogsLinks `json:"links"`
}

func newProjectCogs(c *gin.Context, model models.ProjectCogs) ProjectCogsResource {
	url := c.GetString(string(models.DBContextURL))

	return ProjectCogsResource{
		DefaultModel: model.DefaultModel,
		ProjectCogsEditable: ProjectCogsEditable{
			ProjectID:   model.ProjectID,
			Type:        model.Type,
			Description: model.Description,
			Amount:      model.Amount,
		},
		Links: ProjectCogsLinks{
			Self:    fmt.Sprintf("%s/v1/cogs/%s", url, model.ID),
			Project: fmt.Sprintf("%s/v1/projects/%s", url, model.ProjectID),
		},
	}
}

type ProjectCogsListResponse struct {
	Data       []ProjectCogsResource `json:"data"`                                                          // List of cost entries
	Error      *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination           `json:"pagination"`                                                    // Pagination information
}

type ProjectCogsCreateResponse struct {
	Data  []ProjectCogsDetailResponse `json:"data"`                                                          // List of the created cost entries or their respective error
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *ProjectCogsCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ProjectCogsDetailResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ProjectCogsDetailResponse struct {
	Data  *ProjectCogsResource `json:"data"`                                                          // Data for the cost entry
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ProjectCogsQueryFilter struct {
	ProjectID gl_uuid.UUID `form:"project"`                    // By ID of the Project
	Type      string       `form:"type"`                       // By type of the cost
	Offset    uint         `form:"offset" filterField:"false"` // The offset of the first entry returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`  // Maximum number of entries to return. Defaults to 50.
}

func (f ProjectCogsQueryFilter) model() (models.ProjectCogs, error) {
	return models.ProjectCogs{
		ProjectID: f.ProjectID.UUID,
		Type:      models.CogsType(f.Type),
	}, nil
}

// RegisterCogsRoutes registers the routes for project direct costs with
// the RouterGroup that is passed.
func RegisterCogsRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCogsList)
		r.GET("", GetCogsList)
		r.POST("", CreateCogs)
	}

	// Cost entry with ID
	{
		r.OPTIONS("/:id", OptionsCogsDetail)
		r.GET("/:id", GetCogs)
		r.PATCH("/:id", UpdateCogs)
		r.DELETE("/:id", DeleteCogs)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cogs
// @Success		204
// @Router			/v1/cogs [options]
func OptionsCogsList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cogs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cogs/{id} [options]
func OptionsCogsDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.ProjectCogs{})
}

// @Summary		Create direct costs
// @Description	Creates new direct cost entries for projects
// @Tags			Cogs
// @Produce		json
// @Success		201		{object}	ProjectCogsCreateResponse
// @Failure		400		{object}	ProjectCogsCreateResponse
// @Failure		404		{object}	ProjectCogsCreateResponse
// @Failure		500		{object}	ProjectCogsCreateResponse
// @Param			cogs	body		[]ProjectCogsEditable	true	"Cost entries"
// @Router			/v1/cogs [post]
func CreateCogs(c *gin.Context) {
	var editables []ProjectCogsEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectCogsCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ProjectCogsCreateResponse{}

	for _, editable := range editables {
		cogs := editable.model()

		err = models.DB.Create(&cogs).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newProjectCogs(c, cogs)
		r.Data = append(r.Data, ProjectCogsDetailResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get direct costs
// @Description	Returns a list of direct cost entries
// @Tags			Cogs
// @Produce		json
// @Success		200	{object}	ProjectCogsListResponse
// @Failure		400	{object}	ProjectCogsListResponse
// @Failure		500	{object}	ProjectCogsListResponse
// @Router			/v1/cogs [get]
// @Param			project	query	string	false	"Filter by project ID"
// @Param			type	query	string	false	"Filter by cost type"
// @Param			offset	query	uint	false	"The offset of the first entry returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of entries to return. Defaults to 50."
func GetCogsList(c *gin.Context) {
	var filter ProjectCogsQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("created_at DESC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 entries and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var cogs []models.ProjectCogs
	err = q.Find(&cogs).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectCogsListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ProjectCogsResource, 0)
	for _, entry := range cogs {
		data = append(data, newProjectCogs(c, entry))
	}

	c.JSON(http.StatusOK, ProjectCogsListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get direct cost
// @Description	Returns a specific direct cost entry
// @Tags			Cogs
// @Produce		json
// @Success		200	{object}	ProjectCogsDetailResponse
// @Failure		400	{object}	ProjectCogsDetailResponse
// @Failure		404	{object}	ProjectCogsDetailResponse
// @Failure		500	{object}	ProjectCogsDetailResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cogs/{id} [get]
func GetCogs(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	var cogs models.ProjectCogs
	err = models.DB.First(&cogs, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	data := newProjectCogs(c, cogs)
	c.JSON(http.StatusOK, ProjectCogsDetailResponse{Data: &data})
}

// @Summary		Update direct cost
// @Description	Update an existing direct cost entry. Only values to be updated need to be specified.
// @Tags			Cogs
// @Accept			json
// @Produce		json
// @Success		200		{object}	ProjectCogsDetailResponse
// @Failure		400		{object}	ProjectCogsDetailResponse
// @Failure		404		{object}	ProjectCogsDetailResponse
// @Failure		500		{object}	ProjectCogsDetailResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			cogs	body		ProjectCogsEditable	true	"Cost entry"
// @Router			/v1/cogs/{id} [patch]
func UpdateCogs(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	var cogs models.ProjectCogs
	err = models.DB.First(&cogs, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProjectCogsEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	var data ProjectCogsEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&cogs).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectCogsDetailResponse{
			Error: &s,
		})
		return
	}

	r := newProjectCogs(c, cogs)
	c.JSON(http.StatusOK, ProjectCogsDetailResponse{Data: &r})
}

// @Summary		Delete direct cost
// @Description	Deletes a direct cost entry
// @Tags			Cogs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cogs/{id} [delete]
func DeleteCogs(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var cogs models.ProjectCogs
	err = models.DB.First(&cogs, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&cogs).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
