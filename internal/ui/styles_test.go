package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoColorStyles_RenderPlainText(t *testing.T) {
	// Given: plain styles
	styles := NoColorStyles()

	// When: rendering text
	rendered := styles.Error.Render("*** Please use yarn to install dependencies.")

	// Then: no escape sequences are added
	assert.Equal(t, "*** Please use yarn to install dependencies.", rendered)
	assert.Equal(t, "warn", styles.Warning.Render("warn"))
}

func TestStylesFor_Plain(t *testing.T) {
	styles := StylesFor(&bytes.Buffer{}, false)

	assert.Equal(t, "x", styles.Success.Render("x"))
	assert.Equal(t, "Preflight", styles.Header.Render("Preflight"))
}

func TestStylesFor_ColorFollowsWriterNotStdout(t *testing.T) {
	// Given: color requested for a writer that is not stdout
	var stderr bytes.Buffer

	// When: building styles for it
	styles := StylesFor(&stderr, true)

	// Then: the palette is applied regardless of where stdout points
	rendered := styles.Error.Render("bad")
	assert.Contains(t, rendered, "\x1b[")
	assert.Contains(t, rendered, "bad")
	assert.Contains(t, styles.Success.Render("ok"), "ok")
}
