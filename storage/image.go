package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

// MaxImageBytes bounds decoded upload size.
const MaxImageBytes = 2 * 1024 * 1024

// Errors returned for rejected uploads. The handlers surface these messages
// to the client as validation failures.
var (
	ErrBadDataURL       = errors.New("invalid image data")
	ErrImageTypeInvalid = errors.New("invalid file type, use JPG, PNG, or WEBP")
	ErrImageTooLarge    = errors.New("file too large, max 2MB")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DecodeImageDataURL parses a base64 data URL (data:image/png;base64,...)
// into its content type, a matching file extension and the raw bytes,
// enforcing the allowed types and the size cap.
func DecodeImageDataURL(dataURL string) (contentType, ext string, data []byte, err error) {
	const prefix = "data:"
	if !strings.HasPrefix(dataURL, prefix) {
		return "", "", nil, ErrBadDataURL
	}
	meta, payload, found := strings.Cut(dataURL[len(prefix):], ",")
	if !found {
		return "", "", nil, ErrBadDataURL
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == meta {
		// only base64 payloads are accepted
		return "", "", nil, ErrBadDataURL
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", nil, ErrImageTypeInvalid
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return "", "", nil, ErrImageTooLarge
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, ErrBadDataURL
	}
	if len(data) > MaxImageBytes {
		return "", "", nil, ErrImageTooLarge
	}
	return contentType, ext, data, nil
}
