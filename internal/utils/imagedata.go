package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultImageMIMEType is assumed when the payload carries no data URL header.
const DefaultImageMIMEType = "image/jpeg"

var (
	ErrNoImage       = errors.New("no image data provided")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

// DecodeImageData accepts raw base64 or a data URL ("data:image/png;base64,....")
// and returns the decoded bytes with their MIME type.
func DecodeImageData(imageData string, maxBytes int64) ([]byte, string, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, "", ErrNoImage
	}

	mimeType := DefaultImageMIMEType
	payload := imageData
	if header, rest, ok := strings.Cut(imageData, ","); ok {
		payload = rest
		if strings.HasPrefix(header, "data:") {
			mt := strings.TrimPrefix(header, "data:")
			mt, _, _ = strings.Cut(mt, ";")
			if mt != "" {
				mimeType = mt
			}
		}
	}
	if payload == "" {
		return nil, "", ErrNoImage
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, "", ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
		}
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", ErrImageTooLarge
	}
	return data, mimeType, nil
}
