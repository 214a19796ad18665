package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// User represents a mechanic or service writer.
//
// Disabled users are kept for historical reports, but are skipped in
// the portfolio listings.
type User struct {
	DefaultModel
	Name    string `gorm:"uniqueIndex"`
	Note    string
	Enabled bool
	Teams   []Team `json:"-" gorm:"many2many:team_members"`
}

// BeforeSave trims whitespace from all strings.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Note = strings.TrimSpace(u.Note)

	return nil
}

// Memberships returns all teams the user belongs to.
func (u User) Memberships(db *gorm.DB) ([]Team, error) {
	var teams []Team

	err := db.Model(&u).Association("Teams").Find(&teams)
	return teams, err
}

// Returns all users on this instance for export
func (User) Export() (json.RawMessage, error) {
	var users []User
	err := DB.Unscoped().Where(&User{}).Find(&users).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&users)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
