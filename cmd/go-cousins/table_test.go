package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"NAME", "AGE"},
		[][]string{{"Ada", "34 years"}, {"Grace Hopper", "—"}},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Grace Hopper")
	assert.Less(t, strings.Index(out, "Ada"), strings.Index(out, "Grace Hopper"), "Rows keep their order")

	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), "Columns are aligned: %q", line)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, renderTable([]string{"NAME"}, nil))
}
