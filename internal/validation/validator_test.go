package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
	"github.com/iohusni/garaadsom-book-shop/internal/validation"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type bookRequest struct {
	Title string `json:"title" validate:"required,booktitle"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{
		Username: "cabdi",
		Name:     "Cabdi Xasan",
		Password: "hunter2",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        signupRequest
		wantErrMsg string
	}{
		{
			name:       "missing name",
			req:        signupRequest{Username: "cabdi", Password: "hunter2"},
			wantErrMsg: "name",
		},
		{
			name:       "username too short",
			req:        signupRequest{Username: "ab", Name: "Cabdi", Password: "hunter2"},
			wantErrMsg: "username",
		},
		{
			name:       "username not alphanumeric",
			req:        signupRequest{Username: "cabdi!", Name: "Cabdi", Password: "hunter2"},
			wantErrMsg: "username",
		},
		{
			name:       "password too short",
			req:        signupRequest{Username: "cabdi", Name: "Cabdi", Password: "abc"},
			wantErrMsg: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, domainerrors.As(err, &domainErr)) {
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
				assert.Contains(t, domainErr.Details, tt.wantErrMsg)
			}
		})
	}
}

func TestValidator_BookTitleRule(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(bookRequest{Title: "Week 27 of July - July - 2025"}))

	err := v.Validate(bookRequest{Title: "Weekly report 27"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, domainerrors.As(err, &domainErr)) {
		assert.Contains(t, domainErr.Details, "title")
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{Name: "Cabdi", Password: "hunter2"})
	assert.Error(t, err)

	// Should use JSON tag name "username", not struct field name "Username"
	assert.Contains(t, err.Error(), "validation")

	var domainErr *domainerrors.Error
	if assert.True(t, domainerrors.As(err, &domainErr)) {
		_, hasJSONName := domainErr.Details.(map[string]string)["username"]
		assert.True(t, hasJSONName)
	}
}
