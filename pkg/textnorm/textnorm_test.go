// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/authkit/pkg/textnorm"
)

/*
TestEmail verifies trimming and case folding.
*/
func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ada@Example.COM ", "ada@example.com"},
		{"ada@example.com", "ada@example.com"},
		{"STRASSE@example.com", "strasse@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Email(tt.input))
		})
	}
}

/*
TestName verifies whitespace collapsing and NFC composition.
*/
func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ada   Lovelace ", "Ada Lovelace"},
		{"Ada\tLovelace\n", "Ada Lovelace"},
		{"José", "José"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Name(tt.input))
		})
	}
}
