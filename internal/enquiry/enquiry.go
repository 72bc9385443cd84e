// Package enquiry records visitor contact-form submissions.
package enquiry

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Enquiry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	SourcePage string    `json:"sourcePage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Input is the JSON body of POST /api/enquiry.
type Input struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Phone      string `json:"phone" validate:"max=50"`
	Message    string `json:"message" validate:"required,max=2000"`
	SourcePage string `json:"sourcePage" validate:"max=200"`
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid enquiry: " + strings.Join(keys, ", ")
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

var messages = map[string]string{
	"name":       "Name is required (max 200 characters).",
	"email":      "A valid email address is required.",
	"phone":      "Phone number is too long (max 50 characters).",
	"message":    "Message is required (max 2000 characters).",
	"sourcePage": "Source page is too long.",
}

// Validate trims in and returns the enquiry it describes.
func (in Input) Validate() (Enquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	in.SourcePage = strings.TrimSpace(in.SourcePage)

	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Enquiry{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = messages[fe.Field()]
		}
		return Enquiry{}, &ValidationError{Fields: fields}
	}
	return Enquiry{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Message:    in.Message,
		SourcePage: in.SourcePage,
	}, nil
}
