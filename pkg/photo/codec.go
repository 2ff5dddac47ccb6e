package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// DecodeImage decodes an image payload, using the content type as a hint
// and falling back to sniffing the registered formats.
func DecodeImage(ctx context.Context, payload []byte, contentType string) (image.Image, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}

	var img image.Image
	var ext string
	var err error

	switch contentType {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(payload))
		ext = "png"
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(payload))
		ext = "jpg"
	default:
		img, ext, err = image.Decode(bytes.NewReader(payload))
	}
	if err != nil {
		return nil, ext, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	return img, ext, nil
}

// EncodeImage encodes an image to a byte payload. Quality is a 0.0-1.0
// scalar applied to lossy encodings; the lossless PNG path ignores it.
// Intermediate crops typically use JPEG at the tuning quality to bound
// payload size; the final sheet uses PNG (quality 1.0 policy).
func EncodeImage(ctx context.Context, img image.Image, contentType string, quality float64) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDecode)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var err error

	switch contentType {
	case "image/png":
		err = png.Encode(&buf, img)
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)})
	default:
		return nil, fmt.Errorf("unsupported format: %s", contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jpegQuality maps the 0.0-1.0 scalar onto the encoder's 1-100 scale.
func jpegQuality(q float64) int {
	v := int(q * 100)
	if v < 1 {
		v = 1
	}
	if v > 100 {
		v = 100
	}
	return v
}
