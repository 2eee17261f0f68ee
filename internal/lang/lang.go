// Package lang describes the target languages sentences and audio are produced in.
package lang

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Language is a target language for generated sentences and speech.
type Language struct {
	Name        string
	Code        string
	Script      *unicode.RangeTable
	ESpeakVoice string
}

var builtin = map[string]Language{
	"tamil": {
		Name:        "Tamil",
		Code:        "ta",
		Script:      unicode.Tamil,
		ESpeakVoice: "ta",
	},
	"hindi": {
		Name:        "Hindi",
		Code:        "hi",
		Script:      unicode.Devanagari,
		ESpeakVoice: "hi",
	},
	"bulgarian": {
		Name:        "Bulgarian",
		Code:        "bg",
		Script:      unicode.Cyrillic,
		ESpeakVoice: "bg",
	},
}

// Default returns Tamil.
func Default() Language {
	return builtin["tamil"]
}

// Lookup finds a built-in language by name or ISO code, case-insensitively.
func Lookup(name string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default(), nil
	}
	if l, ok := builtin[key]; ok {
		return l, nil
	}
	for _, l := range builtin {
		if l.Code == key {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unknown language %q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the built-in language keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// InScript reports whether text contains at least one rune of the language's script.
func (l Language) InScript(text string) bool {
	if l.Script == nil {
		return strings.TrimSpace(text) != ""
	}
	for _, r := range text {
		if unicode.Is(l.Script, r) {
			return true
		}
	}
	return false
}

func (l Language) String() string {
	return l.Name
}
