// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/accounts/pkg/textnorm"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Ann", "Ann"},
		{"spaces", "  Nguyen   Van\tA ", "Nguyen Van A"},
		{"tab_between_words", "Ann\tLee", "Ann Lee"},
		{"newline_between_words", "Ann\r\nLee", "Ann Lee"},
		{"decomposed", "Jose\u0301", "Jos\u00e9"},
		{"control", "Ann\u0000", "Ann"},
		{"control_inside_word", "An\u0007n Lee", "Ann Lee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Name(tt.in))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a@x.io", textnorm.Email("  A@X.io "))
}
