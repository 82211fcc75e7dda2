package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompany_Merged(t *testing.T) {
	assert.False(t, (&Company{Status: StatusActive}).Merged())
	assert.False(t, (&Company{Status: StatusPending}).Merged())
	assert.True(t, (&Company{Status: StatusMerged, MergedIntoID: "1"}).Merged())
}

func TestCompany_HasVariant(t *testing.T) {
	c := Company{Name: "Maersk Line", NameVariants: []string{"Maersk", "A.P. Moller-Maersk"}}

	assert.True(t, c.HasVariant("Maersk"))
	assert.False(t, c.HasVariant("maersk"), "variant lookup is literal")
	assert.False(t, c.HasVariant("Maersk Line"), "the display name is not a variant")
}
