package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText_Full(t *testing.T) {
	text := Project(filledState()).PlainText()

	lines := strings.Split(text, "\n")
	assert.Equal(t, "Ada Lovelace", lines[0])
	assert.Equal(t, "Engineer", lines[1])
	assert.Contains(t, text, "Email: ada@example.com")
	assert.Contains(t, text, "LinkedIn: https://linkedin.com/in/ada")
	assert.Contains(t, text, "ABOUT ME\n--------\nWrites programs for engines.")
	assert.Contains(t, text, "Technical Skills: Figma\n")
	assert.Contains(t, text, "Analyst (1842 - Present)\nBabbage & Co\n")
	assert.Contains(t, text, "Notes on the Engine (1843)")
	assert.Contains(t, text, "Technologies: Analytical Engine")
	assert.True(t, strings.HasSuffix(text, "CO-CURRICULAR ACTIVITIES\n------------------------\nGitHub\n"))
}

func TestPlainText_Empty(t *testing.T) {
	text := Project(blankState()).PlainText()

	assert.Equal(t, DefaultJobTitle+"\n", text)
}
