package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndMatch(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("hunter22"))

	assert.True(t, IsHashed(p.Hash))
	assert.False(t, p.NeedsUpgrade())

	ok, err := p.Matches("hunter22")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("hunter23")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLegacyPlaintext(t *testing.T) {
	p := Password{Hash: "letmein"}

	assert.True(t, p.NeedsUpgrade())

	ok, err := p.Matches("letmein")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("letmeout")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsHashed(t *testing.T) {
	assert.True(t, IsHashed("$2a$10$abcdefghijklmnopqrstuv"))
	assert.True(t, IsHashed("$2b$12$abcdefghijklmnopqrstuv"))
	assert.False(t, IsHashed("$1$10$abc"))
	assert.False(t, IsHashed("plain"))
	assert.False(t, IsHashed(""))
}
