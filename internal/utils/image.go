package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nfnt/resize"
)

var (
	ErrInvalidImage  = errors.New("invalid image data")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsDataURL reports whether s looks like an inline base64 image rather than a link.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// DecodeImagePayload accepts a data URL or a bare base64 string.
func DecodeImagePayload(payload string, maxBytes int) ([]byte, error) {
	encoded := payload
	if IsDataURL(payload) {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.Contains(payload[:idx], ";base64") {
			return nil, ErrInvalidImage
		}
		encoded = payload[idx+1:]
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(encoded)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidImage
	}
	return data, nil
}

func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// ResizeImage bounds img to maxWidth x maxHeight keeping the aspect ratio.
func ResizeImage(img image.Image, maxWidth, maxHeight uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxWidth && height <= maxHeight {
		return img
	}

	widthRatio := float64(maxWidth) / float64(width)
	heightRatio := float64(maxHeight) / float64(height)

	var newWidth, newHeight uint
	if widthRatio < heightRatio {
		newWidth = maxWidth
		newHeight = uint(float64(height) * widthRatio)
	} else {
		newWidth = uint(float64(width) * heightRatio)
		newHeight = maxHeight
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}

// NormalizeImage decodes a JPEG or PNG, bounds its size and re-encodes it as JPEG.
func NormalizeImage(data []byte, maxWidth, maxHeight uint, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, ResizeImage(img, maxWidth, maxHeight), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
