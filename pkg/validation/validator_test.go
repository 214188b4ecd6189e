package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Status string `json:"status" binding:"required,notblank" validate:"required,notblank"`
	From   string `json:"from" validate:"required,flexdate"`
	To     string `json:"to" validate:"omitempty,flexdate"`
	Email  string `json:"email" validate:"omitempty,email"`
	Pass   string `json:"password" validate:"omitempty,pwd,max=72"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestRulesAndDetails(t *testing.T) {
	v := newValidator()

	require.NoError(t, v.Struct(sample{Status: "Dev", From: "2020-01-01", To: "2021-02-03T00:00:00Z"}))

	err := v.Struct(sample{Status: "   ", From: "yesterday", To: "bad", Email: "nope", Pass: "123"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must not be blank", details["status"])
	assert.Equal(t, "must be a date (YYYY-MM-DD or RFC3339)", details["from"])
	assert.Contains(t, details, "to")
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestRequiredMessage(t *testing.T) {
	err := newValidator().Struct(sample{})
	details := ToDetails(err)
	assert.Equal(t, "is required", details["status"])
	assert.Equal(t, "is required", details["from"])
}

func TestMaxMessage(t *testing.T) {
	err := newValidator().Struct(sample{Status: "Dev", From: "2020-01-01", Pass: strings.Repeat("x", 73)})
	details := ToDetails(err)
	assert.Equal(t, map[string]string{"password": "must be at most 72 characters long"}, details)
}

func TestToDetailsOnBadJSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
