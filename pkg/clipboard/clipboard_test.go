package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowser_TakeClearsPending(t *testing.T) {
	b := &Browser{}

	_, ok := b.Take()
	assert.False(t, ok)

	require.NoError(t, b.Copy("https://eco.example.com/?referralCode=ABC"))

	text, ok := b.Take()
	assert.True(t, ok)
	assert.Equal(t, "https://eco.example.com/?referralCode=ABC", text)

	_, ok = b.Take()
	assert.False(t, ok)
}

func TestBrowser_LastCopyWins(t *testing.T) {
	b := &Browser{}
	require.NoError(t, b.Copy("first"))
	require.NoError(t, b.Copy("second"))

	text, _ := b.Take()
	assert.Equal(t, "second", text)
}
