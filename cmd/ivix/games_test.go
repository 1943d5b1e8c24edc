package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivix-ratings/internal/catalog"
)

func TestPrintGames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printGames(&buf, catalog.Filter(catalog.Seed(), "rpg")))

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Cyberpunk 2077")
	assert.Contains(t, out, "7.8")
	assert.NotContains(t, out, "Minecraft")
}
