package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "camille@example.com", NormalizeEmail("  Camille@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
