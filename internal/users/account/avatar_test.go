// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/apperr"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF")
	webpBytes = []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
)

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

/*
TestDecodeAvatar_Accepted verifies every accepted image type.
*/
func TestDecodeAvatar_Accepted(t *testing.T) {
	tests := []struct {
		contentType string
		data        []byte
	}{
		{"image/png", pngBytes},
		{"image/gif", gifBytes},
		{"image/jpeg", jpegBytes},
		{"image/webp", webpBytes},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			image, err := decodeAvatar(dataURL(tt.contentType, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, image.ContentType)
			assert.Equal(t, tt.data, image.Data)
		})
	}
}

/*
TestDecodeAvatar_Rejected verifies the malformed inputs.
*/
func TestDecodeAvatar_Rejected(t *testing.T) {
	oversized := make([]byte, MaxAvatarBytes+1)
	copy(oversized, pngBytes)

	tests := []struct {
		name  string
		input string
	}{
		{"not_a_data_url", "https://img/a.png"},
		{"missing_comma", "data:image/png;base64"},
		{"not_base64_flag", "data:image/png," + base64.StdEncoding.EncodeToString(pngBytes)},
		{"unsupported_type", dataURL("image/svg+xml", []byte("<svg/>"))},
		{"bad_base64", "data:image/png;base64,!!!"},
		{"empty", "data:image/png;base64,"},
		{"type_mismatch", dataURL("image/png", gifBytes)},
		{"too_large", dataURL("image/png", oversized)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAvatar(tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}

/*
TestAvatarKey verifies the key layout and that keys never repeat.
*/
func TestAvatarKey(t *testing.T) {
	first := avatarKey("u1", "Ánn Lee", "image/jpeg")
	second := avatarKey("u1", "Ánn Lee", "image/jpeg")

	assert.True(t, strings.HasPrefix(first, "avatars/u1/ann-lee-"), first)
	assert.True(t, strings.HasSuffix(first, ".jpg"), first)
	assert.NotEqual(t, first, second)

	assert.True(t, strings.HasPrefix(avatarKey("u1", "!!!", "image/png"), "avatars/u1/avatar-"))
}
