package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFamilies(t *testing.T) {
	tests := []struct {
		family string
		size   int
		sample string
	}{
		{"terracotta", 17, "minecraft:terracotta"},
		{"wool", 16, "minecraft:white_wool"},
		{"concrete", 16, "minecraft:purple_concrete"},
		{"glass", 16, "minecraft:lime_stained_glass"},
		{"glas", 16, "minecraft:black_stained_glass"},
		{" Wool ", 16, "minecraft:red_wool"},
	}

	for _, tc := range tests {
		t.Run(tc.family, func(t *testing.T) {
			p, err := Default(tc.family)
			require.NoError(t, err)
			assert.Equal(t, tc.size, p.Len())
			_, ok := p.Lookup(tc.sample)
			assert.True(t, ok, "expected %s in %s", tc.sample, tc.family)
			assert.True(t, IsFamily(tc.family))
		})
	}
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	a, err := Default(FamilyWool)
	require.NoError(t, err)
	b, err := Default(FamilyWool)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Entries(), b.Entries())
}

func TestDefaultUnknownFamily(t *testing.T) {
	_, err := Default("marble")
	assert.ErrorIs(t, err, ErrUnknownFamily)
	assert.False(t, IsFamily("marble"))
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, []string{"concrete", "glass", "terracotta", "wool"}, Families())
}
