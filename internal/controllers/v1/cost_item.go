package v1

import (
	"net/http"

	"github.com/garage-ledger/backend/internal/httputil"
	"github.com/garage-ledger/backend/internal/models"
	"github.com/garage-ledger/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterCostItemRoutes registers the routes for cost items with
// the RouterGroup that is passed.
func RegisterCostItemRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCostItemList)
		r.GET("", GetCostItems)
		r.POST("", CreateCostItems)
	}

	// CostItem with ID
	{
		r.OPTIONS("/:id", OptionsCostItemDetail)
		r.GET("/:id", GetCostItem)
		r.PATCH("/:id", UpdateCostItem)
		r.DELETE("/:id", DeleteCostItem)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CostItems
// @Success		204
// @Router			/v1/cost-items [options]
func OptionsCostItemList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CostItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-items/{id} [options]
func OptionsCostItemDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.CostItem{})
}

// createCostItem creates the cost item and its allocations in a single
// transaction. The allocations are validated as a whole before anything
// is written.
func createCostItem(editable CostItemEditable) (models.CostItem, error) {
	allocations := editable.allocationModels()
	if err := models.ValidateAllocations(allocations); err != nil {
		return models.CostItem{}, err
	}

	item := editable.model()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		for i := range allocations {
			allocations[i].CostItemID = item.ID
			if err := tx.Create(&allocations[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})

	return item, err
}

// @Summary		Create cost items
// @Description	Creates new indirect cost items with their team allocations
// @Tags			CostItems
// @Produce		json
// @Success		201			{object}	CostItemCreateResponse
// @Failure		400			{object}	CostItemCreateResponse
// @Failure		404			{object}	CostItemCreateResponse
// @Failure		500			{object}	CostItemCreateResponse
// @Param			costItems	body		[]CostItemEditable	true	"CostItems"
// @Router			/v1/cost-items [post]
func CreateCostItems(c *gin.Context) {
	var editables []CostItemEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostItemCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CostItemCreateResponse{}

	for _, editable := range editables {
		item, err := createCostItem(editable)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newCostItem(c, models.DB, item)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, CostItemResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get cost items
// @Description	Returns a list of indirect cost items
// @Tags			CostItems
// @Produce		json
// @Success		200	{object}	CostItemListResponse
// @Failure		400	{object}	CostItemListResponse
// @Failure		500	{object}	CostItemListResponse
// @Router			/v1/cost-items [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			category	query	string	false	"Filter by cost category"
// @Param			status		query	string	false	"Filter by forecast/actual status"
// @Param			team		query	string	false	"Only cost items with an allocation for this team"
// @Param			from		query	string	false	"Only cost items entered on or after this date (YYYY-MM-DD)"
// @Param			to			query	string	false	"Only cost items entered on or before this date (YYYY-MM-DD)"
// @Param			offset		query	uint	false	"The offset of the first CostItem returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of CostItems to return. Defaults to 50."
func GetCostItems(c *gin.Context) {
	var filter CostItemQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, CostItemListResponse{
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
		c.JSON(status(err), CostItemListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Model(&models.CostItem{}).
		Order("entry_date DESC, name ASC").
		Where(&filterModel, queryFields...)

	if filter.TeamID.UUID != uuid.Nil {
		q = q.Joins("JOIN cost_allocations ON cost_allocations.cost_item_id = cost_items.id").
			Where("cost_allocations.team_id = ?", filter.TeamID.UUID)
	}

	if !filter.From.IsZero() {
		q = q.Where("entry_date >= ?", filter.From)
	}

	if !filter.To.IsZero() {
		q = q.Where("entry_date <= ?", types.EndOfDay(filter.To))
	}

	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 CostItems and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var items []models.CostItem
	err = q.Find(&items).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CostItemListResponse{
			Error: &e,
		})
		return
	}

	data := make([]CostItem, 0)
	for _, item := range items {
		apiResource, err := newCostItem(c, models.DB, item)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CostItemListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, CostItemListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get cost item
// @Description	Returns a specific indirect cost item
// @Tags			CostItems
// @Produce		json
// @Success		200	{object}	CostItemResponse
// @Failure		400	{object}	CostItemResponse
// @Failure		404	{object}	CostItemResponse
// @Failure		500	{object}	CostItemResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-items/{id} [get]
func GetCostItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	var item models.CostItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	data, err := newCostItem(c, models.DB, item)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CostItemResponse{Data: &data})
}

// @Summary		Update cost item
// @Description	Update an existing cost item. Only values to be updated need to be specified. When allocations are specified, the full set replaces all existing allocations atomically.
// @Tags			CostItems
// @Accept			json
// @Produce		json
// @Success		200			{object}	CostItemResponse
// @Failure		400			{object}	CostItemResponse
// @Failure		404			{object}	CostItemResponse
// @Failure		500			{object}	CostItemResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			costItem	body		CostItemEditable	true	"CostItem"
// @Router			/v1/cost-items/{id} [patch]
func UpdateCostItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	var item models.CostItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CostItemEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	var data CostItemEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	// Allocations are replaced as a whole, they are not a column on the
	// cost item
	replaceAllocations := slices.Contains(updateFields, any("Allocations"))
	if replaceAllocations {
		updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == any("Allocations") })

		if err := models.ValidateAllocations(data.allocationModels()); err != nil {
			s := err.Error()
			c.JSON(status(err), CostItemResponse{
				Error: &s,
			})
			return
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(updateFields) > 0 {
			if err := tx.Model(&item).Select("", updateFields...).Updates(data.model()).Error; err != nil {
				return err
			}
		}

		if replaceAllocations {
			if err := tx.Where(&models.CostAllocation{CostItemID: item.ID}).Delete(&models.CostAllocation{}).Error; err != nil {
				return err
			}

			for _, editable := range data.Allocations {
				allocation := editable.model()
				allocation.CostItemID = item.ID
				if err := tx.Create(&allocation).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	r, err := newCostItem(c, models.DB, item)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CostItemResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CostItemResponse{Data: &r})
}

// @Summary		Delete cost item
// @Description	Deletes a cost item and all its allocations
// @Tags			CostItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cost-items/{id} [delete]
func DeleteCostItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var item models.CostItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&item).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
