package crypto

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	b, err := GenerateSecureRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}

func TestGenerateReference(t *testing.T) {
	ref, err := GenerateReference("lst")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^LST-[A-Z2-7]{8}$`), ref)

	bare, err := GenerateReference("")
	require.NoError(t, err)
	assert.Len(t, bare, 8)
}
