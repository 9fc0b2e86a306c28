package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/quillpress/quillpress/util/common"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RegisterForm struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=20"`
	Avatar    string `json:"avatar" binding:"required,url"`
}

func (f *RegisterForm) Validate() error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Avatar = strings.TrimSpace(f.Avatar)
	return check(f)
}

type LoginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

func (f *LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// ChangePasswordForm only checks presence; matching and length are checked by the service.
type ChangePasswordForm struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

func (f *ChangePasswordForm) Validate() error {
	if err := check(f); err != nil {
		return common.NewValidationError("all fields are required", fieldsOf(err))
	}
	return nil
}

type CreatePostForm struct {
	Title      string `json:"title" binding:"required,min=3,max=200"`
	Content    string `json:"content" binding:"required,min=10"`
	CategoryId uint   `json:"categoryId" binding:"required"`
}

func (f *CreatePostForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	return check(f)
}

// UpdatePostForm carries only the fields the author wants to change.
type UpdatePostForm struct {
	Title      *string `json:"title" binding:"omitempty,min=3,max=200"`
	Content    *string `json:"content" binding:"omitempty,min=10"`
	CategoryId *uint   `json:"categoryId" binding:"omitempty,gt=0"`
}

func (f *UpdatePostForm) Validate() error {
	if f.Title != nil {
		t := strings.TrimSpace(*f.Title)
		f.Title = &t
	}
	if f.Content != nil {
		c := strings.TrimSpace(*f.Content)
		f.Content = &c
	}
	if f.Title == nil && f.Content == nil && f.CategoryId == nil {
		return common.NewValidationError("invalid fields", map[string][]string{
			"body": {"at least one of title, content or categoryId is required"},
		})
	}
	return check(f)
}

type CategoryForm struct {
	Name string `json:"name"`
}

type RejectForm struct {
	Comment string `json:"comment"`
}

func check(form any) error {
	if err := validate.Struct(form); err != nil {
		return common.NewValidationError("invalid fields", fieldsOf(err))
	}
	return nil
}

// fieldsOf turns validator errors into json field name -> messages.
func fieldsOf(err error) map[string][]string {
	fields := make(map[string][]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = []string{err.Error()}
		return fields
	}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], describe(fe))
	}
	return fields
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}
