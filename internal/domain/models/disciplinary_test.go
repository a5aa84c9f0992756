package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionTypeCategoryByName(t *testing.T) {
	assert.Equal(t, CategoryTermination, (&DisciplinaryActionType{Name: "termination"}).Category())
	assert.Equal(t, CategoryTermination, (&DisciplinaryActionType{Name: " Termination "}).Category())
	assert.Equal(t, CategoryResignation, (&DisciplinaryActionType{Name: "RESIGNATION"}).Category())
	assert.Equal(t, CategoryOther, (&DisciplinaryActionType{Name: "warning"}).Category())
}

func TestActionTypeCategoryByLegacyCode(t *testing.T) {
	// Renamed types from migrated data resolve through the legacy code.
	legacy := &DisciplinaryActionType{Name: "emp_term_v2", LegacyCode: "Termination"}
	assert.Equal(t, CategoryTermination, legacy.Category())

	assert.Equal(t, CategoryOther, (&DisciplinaryActionType{Name: "absence", LegacyCode: "ABS"}).Category())
}
