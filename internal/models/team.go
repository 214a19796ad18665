package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Team represents a group of users that indirect costs are allocated to.
type Team struct {
	DefaultModel
	Name    string `gorm:"uniqueIndex"`
	Note    string
	Members []User `json:"-" gorm:"many2many:team_members"`
}

// BeforeSave trims whitespace from all strings.
func (t *Team) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Note = strings.TrimSpace(t.Note)

	return nil
}

// Users returns the current members of the team.
func (t Team) Users(db *gorm.DB) ([]User, error) {
	var users []User

	err := db.Model(&t).Association("Members").Find(&users)
	return users, err
}

// MemberCount returns the current number of members of the team.
func (t Team) MemberCount(db *gorm.DB) int64 {
	return db.Model(&t).Association("Members").Count()
}

// Returns all teams on this instance for export
func (Team) Export() (json.RawMessage, error) {
	var teams []Team
	err := DB.Unscoped().Where(&Team{}).Find(&teams).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&teams)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
