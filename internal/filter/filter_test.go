package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile([]string{`app-([`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter")
}

func TestSelects(t *testing.T) {
	tests := []struct {
		name     string
		exprs    []string
		filename string
		want     bool
	}{
		{
			name:     "empty set selects everything",
			exprs:    nil,
			filename: "app-linux.tar.gz",
			want:     true,
		},
		{
			name:     "full match selects",
			exprs:    []string{`app-linux\.tar\.gz`},
			filename: "app-linux.tar.gz",
			want:     true,
		},
		{
			name:     "substring match is not enough",
			exprs:    []string{`linux`},
			filename: "app-linux.tar.gz",
			want:     false,
		},
		{
			name:     "prefix match is not enough",
			exprs:    []string{`app-.*\.tar`},
			filename: "app-linux.tar.gz",
			want:     false,
		},
		{
			name:     "any pattern in the set may match",
			exprs:    []string{`nothing`, `app-.*`},
			filename: "app-linux.tar.gz",
			want:     true,
		},
		{
			name:     "already anchored pattern still works",
			exprs:    []string{`^app-.*$`},
			filename: "app-linux.tar.gz",
			want:     true,
		},
		{
			name:     "empty pattern matches nothing",
			exprs:    []string{""},
			filename: "app-linux.tar.gz",
			want:     false,
		},
		{
			name:     "empty pattern rejects even the empty name",
			exprs:    []string{""},
			filename: "",
			want:     false,
		},
		{
			name:     "empty pattern beside a real one",
			exprs:    []string{"", `app-.*`},
			filename: "app-linux.tar.gz",
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Compile(tt.exprs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Selects(tt.filename))
		})
	}
}

func TestMatchesEmptySet(t *testing.T) {
	set, err := Compile(nil)
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.True(t, set.Selects("anything"))
	assert.False(t, set.Matches("anything"))
}

func TestMatchesExplicitPattern(t *testing.T) {
	set, err := Compile([]string{`stale-.*\.zip`})
	require.NoError(t, err)
	assert.True(t, set.Matches("stale-v1.zip"))
	assert.False(t, set.Matches("kept.txt"))
}

func TestExprsReturnsOriginalPatterns(t *testing.T) {
	exprs := []string{`linux.*\.tar\.gz`, ""}
	set, err := Compile(exprs)
	require.NoError(t, err)
	assert.Equal(t, exprs, set.Exprs())
}
