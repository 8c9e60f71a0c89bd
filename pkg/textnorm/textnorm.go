// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm canonicalizes user-supplied text before it is stored or
// compared.
//
// # Usage
//
// Emails are case-folded so that "Ada@Example.com" and "ada@example.com" name
// the same account. Display names are NFC-normalized so visually identical
// names share one encoding.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// folder is safe for concurrent use only through fresh copies, so Email builds
// its caser per call.
func folder() cases.Caser {
	return cases.Fold()
}

// Email trims and case-folds an email address.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFC.
// 3. Applies Unicode case folding (full folding, not just ASCII lowercasing).
func Email(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	caser := folder()
	return caser.String(s)
}

// Name normalizes a display name.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC.
// 2. Collapses every run of whitespace into a single space.
// 3. Trims leading and trailing whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
