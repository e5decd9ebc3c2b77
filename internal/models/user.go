package models

import "time"

// User represents an application user stored in the users table.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Forename    string    `db:"forename" json:"forename"`
	Surname     string    `db:"surname" json:"surname"`
	Email       string    `db:"email" json:"email"`
	Active      bool      `db:"active" json:"active"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
}
