package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestDiff_Golden(t *testing.T) {
	before := "// Components\nexport * from './A';\n"
	after := "// Components\nexport * from './B';\nexport * from './A';\n"

	g := goldie.New(t)
	g.Assert(t, "diff_inject_after", []byte(Diff("src/index.ts", before, after)))
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff("a.txt", "same\n", "same\n"))
}

func TestDiff_NewFile(t *testing.T) {
	got := Diff("a.txt", "", "one\ntwo\n")
	assert.Equal(t, "--- a.txt\n+++ a.txt\n+ one\n+ two\n", got)
}

func TestDiff_CRLF(t *testing.T) {
	got := Diff("a.txt", "a\r\n", "a\r\nb\r\n")
	assert.Equal(t, "--- a.txt\n+++ a.txt\n  a\n+ b\n", got)
}

func TestColorizeDiff_AsciiProfile(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.ColorProfile()) })

	diff := "--- a.txt\n+++ a.txt\n  a\n+ b\n"
	assert.Equal(t, diff, ColorizeDiff(diff))
	assert.Empty(t, ColorizeDiff(""))
}
