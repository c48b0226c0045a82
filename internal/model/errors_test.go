package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/einvoice-engine/internal/model"
)

func TestConfigError_Message(t *testing.T) {
	err := model.NewConfigError("format", "edifact")
	assert.Equal(t, `unknown format identifier "edifact"`, err.Error())

	err = model.NewConfigError("profile", "bogus")
	assert.Equal(t, `unknown profile identifier "bogus"`, err.Error())
}

func TestDateError_Message(t *testing.T) {
	err := model.NewDateError("03/04/2024", "ambiguous day/month order", nil)
	assert.Contains(t, err.Error(), "03/04/2024")
	assert.Contains(t, err.Error(), "ambiguous day/month order")
}

func TestDateError_Unwrap(t *testing.T) {
	cause := errors.New("parse failed")
	err := model.NewDateError("junk", "unparseable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "parse failed")
}

func TestNewValidationResult(t *testing.T) {
	clean := model.NewValidationResult("xrechnung-ubl", nil)
	assert.True(t, clean.Valid)
	assert.Empty(t, clean.Errors)
	assert.Equal(t, "xrechnung-ubl", clean.Profile)

	dirty := model.NewValidationResult("ksef", []model.Violation{
		{RuleID: "KSEF-NIP-01", Message: "missing seller NIP"},
	})
	assert.False(t, dirty.Valid)
	assert.Len(t, dirty.Errors, 1)
}
