package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayConversion(t *testing.T) {
	assert.Equal(t, "10.00", Display(d("10.00"), USD).StringFixed(2))
	assert.Equal(t, "9.20", Display(d("10.00"), EUR).StringFixed(2))
	// unknown currency falls back to USD
	assert.Equal(t, "10.00", Display(d("10.00"), Currency("GBP")).StringFixed(2))
}
