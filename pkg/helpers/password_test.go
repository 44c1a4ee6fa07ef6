package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	assert.Equal(t, "30c952fab122c3f9759f02a6d95c3758b246b4fee239957b2d4fee46e26170c4", HashPassword("pw"))
	assert.Equal(t, HashPassword("correct horse"), HashPassword("correct horse"))
	assert.NotEqual(t, HashPassword("pw"), HashPassword("pw "))
	assert.NotEqual(t, "pw", HashPassword("pw"))
	assert.Len(t, HashPassword(""), 64)
}
