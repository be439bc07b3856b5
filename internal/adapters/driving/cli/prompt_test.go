package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGroupMenu(t *testing.T) {
	groups := []domain.GroupStatus{
		{Group: "681ec43c", InputAvailable: true},
		{Group: "41236a8e"},
		{Group: "c08ca642", InputAvailable: true},
	}

	tests := []struct {
		name     string
		input    string
		expected []domain.ResourceGroup
	}{
		{name: "number picks group", input: "3\n", expected: []domain.ResourceGroup{"c08ca642"}},
		{name: "a picks all", input: "A\n", expected: []domain.ResourceGroup{"681ec43c", "41236a8e", "c08ca642"}},
		{name: "zero exits", input: "0\n"},
		{name: "input without newline", input: "2", expected: []domain.ResourceGroup{"41236a8e"}},
		{name: "invalid then exit", input: "x\n0\n"},
		{name: "invalid at end of input", input: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result := groupMenu(strings.NewReader(tt.input), &out, groups)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGroupMenu_Output(t *testing.T) {
	var out bytes.Buffer
	groupMenu(strings.NewReader("x\n0\n"), &out, []domain.GroupStatus{
		{Group: "g1", InputAvailable: true},
		{Group: "g2"},
	})

	text := out.String()
	assert.Contains(t, text, "Available groups:")
	assert.Contains(t, text, "  1. g1 - CSV found")
	assert.Contains(t, text, "  2. g2 - CSV missing")
	assert.Contains(t, text, "  1-2 : Select group")
	assert.Contains(t, text, "  a   : Check all groups")
	assert.Contains(t, text, "  0   : Exit")
	assert.Contains(t, text, "Enter your choice: ")
	assert.Equal(t, 1, strings.Count(text, "Invalid choice! Please try again."))
}
