// Package locale keeps the persisted language preference, the runtime's
// right-to-left mode and the translation catalog in agreement.
package locale

import "strings"

// Direction is the text and layout direction of a language.
type Direction int

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// IsRTLLanguage reports whether lang is written right to left. Hebrew is the
// only right-to-left language the app ships; any code starting with "he"
// (case-insensitive) qualifies. Empty and unknown codes are left to right.
func IsRTLLanguage(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "he")
}

// DirectionOf returns the natural direction of lang.
func DirectionOf(lang string) Direction {
	if IsRTLLanguage(lang) {
		return RTL
	}
	return LTR
}

// Normalize trims and lower-cases a language code.
func Normalize(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
