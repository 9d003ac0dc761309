package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClass(t *testing.T) {
	cases := map[string]Class{
		"TOOL":                        ClassTool,
		" simple\n":                   ClassSimple,
		"Complex.":                    ClassComplex,
		"**COMPLEX**":                 ClassComplex,
		"I think this is a TOOL task": ClassTool,
		"COMPLEX or TOOL":             ClassComplex,
		"":                            ClassSimple,
		"no idea":                     ClassSimple,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseClass(in), "input %q", in)
	}
}

func TestExtractCommand(t *testing.T) {
	cases := []struct {
		text    string
		command string
		ok      bool
	}{
		{"guardian what time is it", "what time is it", true},
		{"Guardian, what time is it?", "what time is it", true},
		{"hey guardian", "hey", true},
		{"guardian.", "", true},
		{"ok guardian open the search guardian", "ok open the search", true},
		{"what time is it", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractCommand(c.text, "Guardian")
		assert.Equal(t, c.ok, ok, c.text)
		assert.Equal(t, c.command, got, c.text)
	}
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("goodbye", DefaultExitWords))
	assert.True(t, IsExit("please shut down now", DefaultExitWords))
	assert.True(t, IsExit("exit.", DefaultExitWords))
	assert.True(t, IsExit("Shutdown!", DefaultExitWords))

	assert.False(t, IsExit("i'm quite tired", DefaultExitWords))
	assert.False(t, IsExit("where is the exiting lane", DefaultExitWords))
	assert.False(t, IsExit("shut the door", DefaultExitWords))
	assert.False(t, IsExit("", DefaultExitWords))
}
