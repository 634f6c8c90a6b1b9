package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/models"
)

// ValidationError represents a single validation error
type ValidationError = apperr.FieldViolation

// messages maps field -> rule tag -> user-facing message
var messages = map[string]map[string]string{
	"username": {"required": "Username is required"},
	"email":    {"required": "Email is required"},
	"password": {
		"required": "Password is required",
		"password": "Password has to have at least 1 number and 1 capital letter",
	},
	"nativeLanguage": {
		"required": "Native language is required",
		"language": "Native language is not in any of the options",
	},
	"role": {
		"required": "Role is required",
		"oneof":    "Role must be either 'regular' or 'moderator'",
	},
	"targetLanguage": {"languages": "Target language is not in any of the options"},
	"userId":         {"required": "User Id is required"},
	"title": {
		"required": "Title is required",
		"max":      "Max title length is 120 characters",
	},
	"content": {
		"required": "Content is required",
		"notblank": "Content is required",
	},
	"forumId": {"required": "Forum Id is required"},
	"postId":  {"required": "Post Id is required"},
	"name":    {"required": "Forum name is required"},
}

// Validator checks entity payloads against the field rules declared on the
// model structs. Violations come back in struct field order.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return models.IsLanguage(fl.Field().String())
	})
	_ = v.RegisterValidation("languages", validLanguages)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// ValidateUser validates a registration payload
func (v *Validator) ValidateUser(user *models.UserInput) []ValidationError {
	return v.collect(v.validate.Struct(user))
}

// ValidateUserUpdate validates the merged profile. The password rules only
// apply when a new password was supplied.
func (v *Validator) ValidateUserUpdate(user *models.UserInput, passwordChanged bool) []ValidationError {
	if passwordChanged {
		return v.ValidateUser(user)
	}
	return v.collect(v.validate.StructExcept(user, "Password"))
}

// ValidatePost validates a post payload
func (v *Validator) ValidatePost(post *models.PostInput) []ValidationError {
	return v.collect(v.validate.Struct(post))
}

// ValidateComment validates a comment payload
func (v *Validator) ValidateComment(comment *models.CommentInput) []ValidationError {
	return v.collect(v.validate.Struct(comment))
}

// ValidateForum validates a forum record
func (v *Validator) ValidateForum(forum *models.ForumInput) []ValidationError {
	return v.collect(v.validate.Struct(forum))
}

// Check converts violations into a validation failure, nil when clean
func Check(violations []ValidationError) error {
	if len(violations) == 0 {
		return nil
	}
	return apperr.Validation(violations...)
}

func (v *Validator) collect(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	var errs []ValidationError
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag()),
		})
	}
	return errs
}

func messageFor(field, tag string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	return field + " is invalid"
}

// validPassword requires at least one digit and one uppercase letter
func validPassword(fl validator.FieldLevel) bool {
	var hasDigit, hasUpper bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	return hasDigit && hasUpper
}

func validLanguages(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		if !models.IsLanguage(field.Index(i).String()) {
			return false
		}
	}
	return true
}
