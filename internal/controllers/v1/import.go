package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/importer"
	"github.com/garage-ledger/backend/internal/importer/parser/garagecsv"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// ImportQuery is the query string for the timesheet import.
type ImportQuery struct {
	Create bool `form:"create"` // Create projects and users referenced in the file that do not exist yet
}

type TimesheetImportResponse struct {
	Data  []Timesheet `json:"data"`                                            // The created timesheets
	Error *string     `json:"error" example:"error in line 2 of the CSV: ..."` // The error, if any occurred
}

// RegisterImportRoutes registers the routes for imports with
// the RouterGroup that is passed.
func RegisterImportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/timesheets", OptionsImportTimesheets)
	r.POST("/timesheets", ImportTimesheets)
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("this endpoint only supports %s files", suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import
// @Success		204
// @Router			/v1/import/timesheets [options]
func OptionsImportTimesheets(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import timesheets
// @Description	Imports timesheets from a CSV file. Projects and users are matched by name
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	TimesheetImportResponse
// @Failure		400		{object}	TimesheetImportResponse
// @Failure		404		{object}	TimesheetImportResponse
// @Failure		500		{object}	TimesheetImportResponse
// @Param			file	formData	file	true	"File to import"
// @Param			create	query		bool	false	"Create projects and users that do not exist yet"
// @Router			/v1/import/timesheets [post]
func ImportTimesheets(c *gin.Context) {
	var query ImportQuery
	if err := c.BindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TimesheetImportResponse{
			Error: &s,
		})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TimesheetImportResponse{
			Error: &s,
		})
		return
	}

	previews, err := garagecsv.Parse(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TimesheetImportResponse{
			Error: &s,
		})
		return
	}

	created, err := importer.Create(models.DB, previews, query.Create)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TimesheetImportResponse{
			Error: &s,
		})
		return
	}

	data := make([]Timesheet, 0, len(created))
	for _, timesheet := range created {
		data = append(data, newTimesheet(c, timesheet))
	}

	c.JSON(http.StatusCreated, TimesheetImportResponse{Data: data})
}
