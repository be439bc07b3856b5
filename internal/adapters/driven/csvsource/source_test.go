package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

func writeCSV(t *testing.T, dir, group, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, group+".csv"), []byte(content), 0o600))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "header with email column",
			input: "Name,Email Address,Phone\nAna,ana@x.com,1\nBudi, budi@x.com ,2\nCici,,3\n",
			want:  []string{"ana@x.com", "budi@x.com"},
		},
		{
			name:  "header is case insensitive",
			input: "No,EMAIL\n1,a@x.com\n",
			want:  []string{"a@x.com"},
		},
		{
			name:  "no header uses second column",
			input: "Ana,ana@x.com,1\nBudi,budi@x.com,2\n",
			want:  []string{"ana@x.com", "budi@x.com"},
		},
		{
			name:  "single column",
			input: "ana@x.com\n budi@x.com\n",
			want:  []string{"ana@x.com", "budi@x.com"},
		},
		{
			name:  "mixed row widths keep blanks for the verifier",
			input: "a@x.com\nBudi,\nCici,c@x.com\n",
			want:  []string{"a@x.com", "", "c@x.com"},
		},
		{
			name:  "malformed first entry stays data",
			input: "bad\na@x.com\nb@x.com\n",
			want:  []string{"bad", "a@x.com", "b@x.com"},
		},
		{
			name:  "blank first address stays data",
			input: "1,\n2,a@x.com\n3,b@x.com\n",
			want:  []string{"", "a@x.com", "b@x.com"},
		},
		{
			name:  "quoted cells",
			input: "\"Doe, Jane\",\"jane@x.com\"\n",
			want:  []string{"jane@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrNoIdentities)

	_, err = Parse(strings.NewReader("Email\n\n"))
	assert.ErrorIs(t, err, domain.ErrNoIdentities)

	_, err = Parse(strings.NewReader("Name,Phone\nAna,1\n"))
	assert.ErrorIs(t, err, domain.ErrNoEmailColumn)

	_, err = Parse(strings.NewReader("a@x.com,\"unterminated\n"))
	assert.Error(t, err)
}

func TestSource_Identities(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "g1", "\xEF\xBB\xBFEmail\na@x.com\nb@x.com\n")
	source := New(dir)

	ids, err := source.Identities(context.Background(), "g1")

	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, ids)
}

func TestSource_Identities_Missing(t *testing.T) {
	source := New(t.TempDir())

	_, err := source.Identities(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrInputUnavailable)
}

func TestSource_Identities_Cancelled(t *testing.T) {
	source := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Identities(ctx, "g1")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_HasAndLocation(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "g1", "a@x.com\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "g2.csv"), 0o755))
	source := New(dir)

	assert.True(t, source.Has("g1"))
	assert.False(t, source.Has("g2"), "directories are not inputs")
	assert.False(t, source.Has("g3"))
	assert.Equal(t, filepath.Join(dir, "g1.csv"), source.Location("g1"))
}

func TestNewDynamic(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeCSV(t, second, "g1", "a@x.com\n")
	current := first
	source := NewDynamic(func() string { return current })

	assert.False(t, source.Has("g1"))
	current = second
	assert.True(t, source.Has("g1"))
}

func TestSource_Location_EmptyDir(t *testing.T) {
	source := New("")

	assert.Equal(t, "g1.csv", source.Location("g1"))
}
