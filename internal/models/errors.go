package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors for cost tracking resources.
var (
	ErrAllocationSumInvalid  = errors.New("the allocation percentages for a cost item must sum to 100%")
	ErrAllocationTeamNotSet  = errors.New("every allocation must reference a team")
	ErrCostCategoryInvalid   = errors.New("the cost item category is not valid")
	ErrCostStatusInvalid     = errors.New("the cost item status must be 'forecast' or 'actual'")
	ErrCogsTypeInvalid       = errors.New("the COGS entry type is not valid")
	ErrStageStatusInvalid    = errors.New("the workflow stage status is not valid")
	ErrProjectNameNotUnique  = errors.New("the project name must be unique")
	ErrUserNameNotUnique     = errors.New("the user name must be unique")
	ErrTeamNameNotUnique     = errors.New("the team name must be unique")
	ErrTimesheetDurationNeg  = errors.New("the timesheet duration must not be negative")
	ErrPercentageOutOfBounds = errors.New("allocation percentages must be between 0 and 100")
)
