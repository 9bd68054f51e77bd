package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	contentType, ext, data, err := DecodeImageDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, []byte("fake image bytes"), data)

	_, ext, _, err = DecodeImageDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, ext, _, err = DecodeImageDataURL("data:image/webp;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, ".webp", ext)
}

func TestDecodeImageDataURLRejections(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	_, _, _, err := DecodeImageDataURL("http://example.com/cat.png")
	assert.ErrorIs(t, err, ErrBadDataURL)

	_, _, _, err = DecodeImageDataURL("data:image/png;base64")
	assert.ErrorIs(t, err, ErrBadDataURL)

	// Non-base64 encoding marker.
	_, _, _, err = DecodeImageDataURL("data:image/png," + payload)
	assert.ErrorIs(t, err, ErrBadDataURL)

	_, _, _, err = DecodeImageDataURL("data:image/gif;base64," + payload)
	assert.ErrorIs(t, err, ErrImageTypeInvalid)

	_, _, _, err = DecodeImageDataURL("data:image/png;base64,%%%not-base64%%%")
	assert.ErrorIs(t, err, ErrBadDataURL)
}

func TestDecodeImageDataURLSizeCap(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes+1))
	_, _, _, err := DecodeImageDataURL("data:image/png;base64," + big)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	small := base64.StdEncoding.EncodeToString(make([]byte, 1024))
	_, _, data, err := DecodeImageDataURL("data:image/png;base64," + small)
	require.NoError(t, err)
	assert.Len(t, data, 1024)
}
