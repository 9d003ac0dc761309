package assistant

import (
	"strings"
	"unicode"
)

type Class string

const (
	ClassTool    Class = "TOOL"
	ClassSimple  Class = "SIMPLE"
	ClassComplex Class = "COMPLEX"
)

// ParseClass reads a classifier answer. Models that ramble still get routed
// by keyword, COMPLEX taking precedence; anything else is SIMPLE.
func ParseClass(answer string) Class {
	a := strings.ToUpper(strings.TrimSpace(answer))
	a = strings.Trim(a, ".'\"`*")

	switch Class(a) {
	case ClassTool, ClassSimple, ClassComplex:
		return Class(a)
	}

	switch {
	case strings.Contains(a, string(ClassComplex)):
		return ClassComplex
	case strings.Contains(a, string(ClassTool)):
		return ClassTool
	default:
		return ClassSimple
	}
}

// ExtractCommand reports whether text mentions the wake word and returns what
// is left once every mention and the punctuation around it is removed.
func ExtractCommand(text, wakeWord string) (string, bool) {
	text = strings.ToLower(text)
	wakeWord = strings.ToLower(strings.TrimSpace(wakeWord))
	if wakeWord == "" || !strings.Contains(text, wakeWord) {
		return "", false
	}

	rest := strings.ReplaceAll(text, wakeWord, " ")
	rest = strings.Join(strings.Fields(rest), " ")
	rest = strings.TrimFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return rest, true
}

// IsExit reports whether command contains one of the exit words or phrases
// as whole words.
func IsExit(command string, exitWords []string) bool {
	words := strings.FieldsFunc(strings.ToLower(command), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	joined := " " + strings.Join(words, " ") + " "

	for _, w := range exitWords {
		w = strings.Join(strings.Fields(strings.ToLower(w)), " ")
		if w == "" {
			continue
		}
		if strings.Contains(joined, " "+w+" ") {
			return true
		}
	}
	return false
}
