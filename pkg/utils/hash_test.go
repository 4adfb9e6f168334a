package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint("Jane@X.com ")
	b := Fingerprint("jane@x.com")

	assert.Len(t, a, 12)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint("john@x.com"))
	assert.NotContains(t, a, "jane")
}

func TestFingerprint_Empty(t *testing.T) {
	assert.Equal(t, "", Fingerprint("   "))
}
