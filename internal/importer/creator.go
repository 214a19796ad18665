package importer

import (
	"errors"
	"fmt"

	"github.com/garage-ledger/backend/internal/models"
	"gorm.io/gorm"
)

// Create persists the parsed timesheets.
//
// Projects and users are matched by their exact name. When createMissing
// is set, names that do not exist yet are created on the fly, otherwise
// the import fails on the first unknown name. Everything runs in a single
// transaction so a failing line rolls back the whole file.
func Create(db *gorm.DB, timesheets []TimesheetPreview, createMissing bool) ([]models.Timesheet, error) {
	// Start a transaction so we can roll back all created resources if an error occurs
	tx := db.Begin()

	projects := make(map[string]models.Project)
	users := make(map[string]models.User)

	created := make([]models.Timesheet, 0, len(timesheets))
	for _, preview := range timesheets {
		project, ok := projects[preview.ProjectName]
		if !ok {
			err := tx.Where(&models.Project{Name: preview.ProjectName}).First(&project).Error
			if errors.Is(err, models.ErrResourceNotFound) && createMissing {
				project = models.Project{Name: preview.ProjectName}
				err = tx.Create(&project).Error
			} else if errors.Is(err, models.ErrResourceNotFound) {
				tx.Rollback()
				return []models.Timesheet{}, fmt.Errorf("%w project named '%s'", models.ErrResourceNotFound, preview.ProjectName)
			}

			if err != nil {
				tx.Rollback()
				return []models.Timesheet{}, err
			}

			projects[preview.ProjectName] = project
		}

		user, ok := users[preview.UserName]
		if !ok {
			err := tx.Where(&models.User{Name: preview.UserName}).First(&user).Error
			if errors.Is(err, models.ErrResourceNotFound) && createMissing {
				user = models.User{Name: preview.UserName, Enabled: true}
				err = tx.Create(&user).Error
			} else if errors.Is(err, models.ErrResourceNotFound) {
				tx.Rollback()
				return []models.Timesheet{}, fmt.Errorf("%w user named '%s'", models.ErrResourceNotFound, preview.UserName)
			}

			if err != nil {
				tx.Rollback()
				return []models.Timesheet{}, err
			}

			users[preview.UserName] = user
		}

		timesheet := preview.Timesheet
		timesheet.ProjectID = project.ID
		timesheet.UserID = user.ID

		if err := tx.Create(&timesheet).Error; err != nil {
			tx.Rollback()
			return []models.Timesheet{}, err
		}

		created = append(created, timesheet)
	}

	if err := tx.Commit().Error; err != nil {
		return []models.Timesheet{}, err
	}

	return created, nil
}
