package filestorage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPhotoBytes bounds a decoded photo
const MaxPhotoBytes = 5 << 20

// Photo decoding errors
var (
	ErrEmptyPhoto      = errors.New("photo data is empty")
	ErrPhotoTooLarge   = errors.New("photo exceeds the size limit")
	ErrNotAnImage      = errors.New("photo data is not an image")
	ErrMalformedBase64 = errors.New("photo data is not valid base64")
)

// DecodeDataURL decodes a "data:image/...;base64," URL or a bare base64
// string. The declared media type is ignored; the content is sniffed.
func DecodeDataURL(raw string) (*Photo, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 {
			return nil, ErrMalformedBase64
		}
		raw = raw[comma+1:]
	}
	if raw == "" {
		return nil, ErrEmptyPhoto
	}
	if base64.StdEncoding.DecodedLen(len(raw)) > MaxPhotoBytes+3 {
		return nil, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBase64, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	if len(data) > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotAnImage
	}

	return &Photo{
		Data:      data,
		MimeType:  mt.String(),
		Extension: mt.Extension(),
	}, nil
}
