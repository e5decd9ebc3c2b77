package dto

import (
	"time"

	"github.com/usermgmt/admin-web/internal/models"
)

const dateDisplayFormat = "02/01/2006"

// DateInputFormat is the wire format for date form fields.
const DateInputFormat = "2006-01-02"

// UserViewModel is the display projection of a user.
type UserViewModel struct {
	ID          int64
	Forename    string
	Surname     string
	Email       string
	Active      bool
	DateOfBirth string
}

// UserFromModel maps a stored user onto its view model.
func UserFromModel(u models.User) UserViewModel {
	return UserViewModel{
		ID:          u.ID,
		Forename:    u.Forename,
		Surname:     u.Surname,
		Email:       u.Email,
		Active:      u.Active,
		DateOfBirth: u.DateOfBirth.Format(dateDisplayFormat),
	}
}

// UserListViewModel backs the user list page.
type UserListViewModel struct {
	Items  []UserViewModel
	Active *bool
}

// UserLogViewModel is the per-user log history row. It deliberately exposes
// level, message and timestamp only.
type UserLogViewModel struct {
	Level     string
	Message   string
	Timestamp time.Time
}

// UserDetailViewModel backs the user detail page.
type UserDetailViewModel struct {
	User UserViewModel
	Logs []UserLogViewModel
}

// UserForm carries submitted add/edit form values. Values survive a failed
// validation unchanged so the form can be redisplayed as submitted.
type UserForm struct {
	ID          int64  `form:"-"`
	Forename    string `form:"forename" validate:"required,personname"`
	Surname     string `form:"surname" validate:"required,personname"`
	Email       string `form:"email" validate:"required,email"`
	Active      bool   `form:"active"`
	DateOfBirth string `form:"date_of_birth" validate:"required,datetime=2006-01-02,adult"`
}

// ParsedDateOfBirth returns the date field as a time. Call only after
// validation has passed.
func (f UserForm) ParsedDateOfBirth() time.Time {
	t, _ := time.Parse(DateInputFormat, f.DateOfBirth)
	return t
}

// FormFromModel prefills an edit form from a stored user.
func FormFromModel(u models.User) UserForm {
	return UserForm{
		ID:          u.ID,
		Forename:    u.Forename,
		Surname:     u.Surname,
		Email:       u.Email,
		Active:      u.Active,
		DateOfBirth: u.DateOfBirth.Format(DateInputFormat),
	}
}

// UserFormViewModel backs the add/edit form pages.
type UserFormViewModel struct {
	Form   UserForm
	Errors map[string]string
}
