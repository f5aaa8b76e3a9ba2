package schema

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// name title-cases a person or company name without lowering existing
// capitals, so "mcDonald" keeps its inner capital.
func name(s string) string {
	s = collapse(s)
	if s == "" {
		return s
	}
	return cases.Title(language.Spanish, cases.NoLower).String(s)
}

// collapse trims s and squeezes inner runs of whitespace.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func email(s string) string {
	return lower(s)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// phone strips the separators people type in phone numbers.
func phone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// cents rounds an amount to two decimals.
func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
