package v1

import (
	"net/http"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTimesheetRoutes registers the routes for timesheets with
// the RouterGroup that is passed.
func RegisterTimesheetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTimesheetList)
		r.GET("", GetTimesheets)
		r.POST("", CreateTimesheets)
	}

	// Timesheet with ID
	{
		r.OPTIONS("/:id", OptionsTimesheetDetail)
		r.GET("/:id", GetTimesheet)
		r.PATCH("/:id", UpdateTimesheet)
		r.DELETE("/:id", DeleteTimesheet)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Timesheets
// @Success		204
// @Router			/v1/timesheets [options]
func OptionsTimesheetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Timesheets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/timesheets/{id} [options]
func OptionsTimesheetDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Timesheet{})
}

// @Summary		Create timesheets
// @Description	Creates new time-tracking records
// @Tags			Timesheets
// @Produce		json
// @Success		201			{object}	TimesheetCreateResponse
// @Failure		400			{object}	TimesheetCreateResponse
// @Failure		404			{object}	TimesheetCreateResponse
// @Failure		500			{object}	TimesheetCreateResponse
// @Param			timesheets	body		[]TimesheetEditable	true	"Timesheets"
// @Router			/v1/timesheets [post]
func CreateTimesheets(c *gin.Context) {
	var editables []TimesheetEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TimesheetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TimesheetCreateResponse{}

	for _, editable := range editables {
		timesheet := editable.model()

		err = models.DB.Create(&timesheet).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newTimesheet(c, timesheet)
		r.Data = append(r.Data, TimesheetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get timesheets
// @Description	Returns a list of time-tracking records
// @Tags			Timesheets
// @Produce		json
// @Success		200	{object}	TimesheetListResponse
// @Failure		400	{object}	TimesheetListResponse
// @Failure		500	{object}	TimesheetListResponse
// @Router			/v1/timesheets [get]
// @Param			project	query	string	false	"Filter by project ID"
// @Param			user	query	string	false	"Filter by user ID"
// @Param			from	query	string	false	"Only records beginning on or after this date (YYYY-MM-DD)"
// @Param			to		query	string	false	"Only records beginning on or before this date (YYYY-MM-DD)"
// @Param			note	query	string	false	"Filter by note"
// @Param			offset	query	uint	false	"The offset of the first Timesheet returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Timesheets to return. Defaults to 50."
func GetTimesheets(c *gin.Context) {
	var filter TimesheetQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TimesheetListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("begin DESC").
		Where(&filterModel, queryFields...)

	if !filter.From.IsZero() {
		q = q.Where("begin >= ?", filter.From)
	}

	if !filter.To.IsZero() {
		q = q.Where("begin <= ?", types.EndOfDay(filter.To))
	}

	if filter.Note != "" {
		q = q.Where("note LIKE ?", "%"+filter.Note+"%")
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("note = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Timesheets and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var timesheets []models.Timesheet
	err = q.Find(&timesheets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TimesheetListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Timesheet, 0)
	for _, timesheet := range timesheets {
		data = append(data, newTimesheet(c, timesheet))
	}

	c.JSON(http.StatusOK, TimesheetListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get timesheet
// @Description	Returns a specific time-tracking record
// @Tags			Timesheets
// @Produce		json
// @Success		200	{object}	TimesheetResponse
// @Failure		400	{object}	TimesheetResponse
// @Failure		404	{object}	TimesheetResponse
// @Failure		500	{object}	TimesheetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/timesheets/{id} [get]
func GetTimesheet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	var timesheet models.Timesheet
	err = models.DB.First(&timesheet, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	data := newTimesheet(c, timesheet)
	c.JSON(http.StatusOK, TimesheetResponse{Data: &data})
}

// @Summary		Update timesheet
// @Description	Update an existing time-tracking record. Only values to be updated need to be specified.
// @Tags			Timesheets
// @Accept			json
// @Produce		json
// @Success		200			{object}	TimesheetResponse
// @Failure		400			{object}	TimesheetResponse
// @Failure		404			{object}	TimesheetResponse
// @Failure		500			{object}	TimesheetResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			timesheet	body		TimesheetEditable	true	"Timesheet"
// @Router			/v1/timesheets/{id} [patch]
func UpdateTimesheet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	var timesheet models.Timesheet
	err = models.DB.First(&timesheet, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TimesheetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	var data TimesheetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&timesheet).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetResponse{
			Error: &s,
		})
		return
	}

	r := newTimesheet(c, timesheet)
	c.JSON(http.StatusOK, TimesheetResponse{Data: &r})
}

// @Summary		Delete timesheet
// @Description	Deletes a time-tracking record
// @Tags			Timesheets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/timesheets/{id} [delete]
func DeleteTimesheet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var timesheet models.Timesheet
	err = models.DB.First(&timesheet, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&timesheet).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
