package models_test

import (
	"errors"
	"testing"

	"github.com/garage-ledger/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCostItemInvalidCategory() {
	err := models.DB.Create(&models.CostItem{
		Name:     "Mystery",
		Category: models.CostCategory("COFFEE"),
		Amount:   decimal.NewFromInt(1000),
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrCostCategoryInvalid), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestCostItemInvalidStatus() {
	err := models.DB.Create(&models.CostItem{
		Name:     "Mystery",
		Category: models.CategoryFinancial,
		Status:   models.CostStatus("maybe"),
		Amount:   decimal.NewFromInt(1000),
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrCostStatusInvalid), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestCostItemDefaultStatus() {
	item := suite.createTestCostItem(models.CostItem{Amount: decimal.NewFromInt(1000)})

	var reloaded models.CostItem
	suite.Assert().Nil(models.DB.First(&reloaded, item.ID).Error)
	suite.Assert().Equal(models.CostStatusForecast, reloaded.Status)
}

func (suite *TestSuiteStandard) TestValidateAllocations() {
	tests := []struct {
		name        string
		percentages []float64
		err         error
	}{
		{"no allocations", nil, nil},
		{"single full allocation", []float64{100}, nil},
		{"valid split", []float64{60, 40}, nil},
		{"within tolerance", []float64{60, 40.009}, nil},
		{"sum above 100", []float64{60, 41}, models.ErrAllocationSumInvalid},
		{"sum below 100", []float64{60, 30}, models.ErrAllocationSumInvalid},
		{"negative percentage", []float64{-10, 110}, models.ErrPercentageOutOfBounds},
		{"percentage above 100", []float64{101}, models.ErrPercentageOutOfBounds},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var allocations []models.CostAllocation
			for _, p := range tt.percentages {
				allocations = append(allocations, models.CostAllocation{
					TeamID:     uuid.New(),
					Percentage: decimal.NewFromFloat(p),
				})
			}

			err := models.ValidateAllocations(allocations)
			if tt.err == nil {
				assert.Nil(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.err), "wrong error: %v", err)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestCostAllocationWithoutTeam() {
	item := suite.createTestCostItem(models.CostItem{Amount: decimal.NewFromInt(1000)})

	err := models.DB.Create(&models.CostAllocation{
		CostItemID: item.ID,
		Percentage: decimal.NewFromInt(100),
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrAllocationTeamNotSet), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestCostAllocationUnknownTeam() {
	item := suite.createTestCostItem(models.CostItem{Amount: decimal.NewFromInt(1000)})

	err := models.DB.Create(&models.CostAllocation{
		CostItemID: item.ID,
		TeamID:     uuid.New(),
		Percentage: decimal.NewFromInt(100),
	}).Error

	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound), "wrong error: %v", err)
}

func (suite *TestSuiteStandard) TestCostAllocationAllocatedAmount() {
	allocation := models.CostAllocation{
		CostItem:   models.CostItem{Amount: decimal.NewFromInt(1000000)},
		Percentage: decimal.NewFromInt(70),
	}

	suite.assertDecimalEqual(decimal.NewFromInt(700000), allocation.AllocatedAmount())
}

func (suite *TestSuiteStandard) TestCostItemDeleteCascadesAllocations() {
	team := suite.createTestTeam(models.Team{})
	item := suite.createTestCostItem(models.CostItem{Amount: decimal.NewFromInt(1000)})
	suite.createTestCostAllocation(models.CostAllocation{
		CostItemID: item.ID,
		TeamID:     team.ID,
		Percentage: decimal.NewFromInt(100),
	})

	suite.Assert().Nil(models.DB.Delete(&item).Error)

	var count int64
	suite.Assert().Nil(models.DB.Model(&models.CostAllocation{}).Count(&count).Error)
	suite.Assert().Zero(count, "allocations must be deleted with their cost item")
}
