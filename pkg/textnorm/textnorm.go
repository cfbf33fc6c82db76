// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm canonicalizes user supplied identity text.
//
// Display names are stored in NFC so that visually identical names compare
// equal, and emails are compared case-insensitively.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name trims, folds runs of whitespace into one space and normalizes to NFC.
// Control characters are dropped, except whitespace which separates words.
func Name(s string) string {
	t := transform.Chain(norm.NFC, transform.RemoveFunc(isHiddenControl))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.Join(strings.Fields(result), " ")
}

func isHiddenControl(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// Email trims surrounding whitespace and lowercases the address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
