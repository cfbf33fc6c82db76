// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/taibuivan/accounts/internal/platform/validate"
	"github.com/taibuivan/accounts/pkg/slug"
	"github.com/taibuivan/accounts/pkg/uuid"
)

// avatarExtensions maps accepted image types to object key extensions.
var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// avatarImage is a decoded data URL.
type avatarImage struct {
	ContentType string
	Data        []byte
}

/*
decodeAvatar parses a base64 data URL ("data:image/png;base64,...").

Description: The declared type must be an accepted image type and must match
the sniffed content. The decoded payload may not exceed [MaxAvatarBytes].

Returns:
  - *avatarImage: Content type and raw bytes
  - error: ValidationError on any malformed input
*/
func decodeAvatar(dataURL string) (*avatarImage, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return nil, invalidAvatar("Must be a base64 data URL")
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, invalidAvatar("Must be a base64 data URL")
	}

	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, invalidAvatar("Must be base64 encoded")
	}

	contentType = strings.ToLower(contentType)
	if _, accepted := avatarExtensions[contentType]; !accepted {
		return nil, invalidAvatar("Must be a PNG, JPEG, GIF or WebP image")
	}

	// Reject oversized payloads before allocating for them.
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxAvatarBytes+2 {
		return nil, invalidAvatar(tooLarge())
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalidAvatar("Must be base64 encoded")
	}
	if len(data) == 0 {
		return nil, invalidAvatar("Must not be empty")
	}
	if len(data) > MaxAvatarBytes {
		return nil, invalidAvatar(tooLarge())
	}

	if sniffed := http.DetectContentType(data); sniffed != contentType {
		return nil, invalidAvatar("Content does not match " + contentType)
	}

	return &avatarImage{ContentType: contentType, Data: data}, nil
}

// avatarKey builds a fresh object key for userID's avatar.
//
// Example: avatars/0190.../ann-lee-0190....png
func avatarKey(userID, name, contentType string) string {
	base := slug.Truncate(slug.From(name), 32)
	if base == "" {
		base = "avatar"
	}
	return fmt.Sprintf("%s/%s/%s-%s.%s", avatarPrefix, userID, base, uuid.New(), avatarExtensions[contentType])
}

func invalidAvatar(message string) error {
	return validate.RequiredError(FieldAvatar, message)
}

func tooLarge() string {
	return fmt.Sprintf("Must not exceed %d MiB", MaxAvatarBytes>>20)
}
