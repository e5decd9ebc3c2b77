package dto

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var personNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

// RegisterValidations installs the custom form rules on a validator.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("personname", validPersonName); err != nil {
		return err
	}
	return v.RegisterValidation("adult", validAdult)
}

// validPersonName allows letters, spaces, hyphens and apostrophes only.
func validPersonName(fl validator.FieldLevel) bool {
	return personNamePattern.MatchString(fl.Field().String())
}

// validAdult requires a date of birth at least 18 years in the past. The
// datetime rule runs first, so an unparseable value never reaches here as a
// second error.
func validAdult(fl validator.FieldLevel) bool {
	dob, err := time.Parse(DateInputFormat, fl.Field().String())
	if err != nil {
		return true
	}
	return !dob.After(time.Now().UTC().AddDate(-18, 0, 0))
}

var fieldMessages = map[string]map[string]string{
	"Forename": {
		"required":   "Forename is required.",
		"personname": "Forename contains invalid characters.",
	},
	"Surname": {
		"required":   "Surname is required.",
		"personname": "Surname contains invalid characters.",
	},
	"Email": {
		"required": "Email is required.",
		"email":    "Email is not a valid email address.",
	},
	"DateOfBirth": {
		"required": "Date of Birth is required.",
		"datetime": "Date of Birth is not a valid date.",
		"adult":    "User must be at least 18 years old",
	},
}

// ValidateUserForm runs the form rules and returns per-field messages, empty
// when the form is valid. At most one message is reported per field.
func ValidateUserForm(v *validator.Validate, form UserForm) map[string]string {
	errs := map[string]string{}
	err := v.Struct(form)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["Form"] = "Submitted form could not be validated."
		return errs
	}

	for _, fe := range validationErrors {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
			errs[fe.Field()] = msg
		} else {
			errs[fe.Field()] = "Value is invalid."
		}
	}
	return errs
}
