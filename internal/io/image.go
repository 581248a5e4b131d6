package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// CoverOptions controls how cover art is prepared before embedding.
type CoverOptions struct {
	// Resize shrinks images larger than MaxSize on either side.
	Resize  bool
	MaxSize int

	// ConvertToJPEG re-encodes the image as JPEG.
	ConvertToJPEG bool
}

// ImageService provides image processing operations for cover art.
//
// Example usage:
//
//	svc := NewImageService()
//	data, mime := svc.Prepare(ctx, raw, CoverOptions{Resize: true, MaxSize: 1000, ConvertToJPEG: true})
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Prepare applies opts to raw image bytes and returns the result together
// with its MIME type.
//
// Processing is best effort: if the image cannot be decoded the original
// bytes are returned unchanged with a sniffed MIME type, so the caller can
// still embed them.
func (s *ImageService) Prepare(ctx context.Context, data []byte, opts CoverOptions) ([]byte, string) {
	out := data
	var err error

	if opts.Resize && opts.MaxSize > 0 {
		out, err = s.ResizeImage(ctx, out, opts.MaxSize, opts.MaxSize)
		if err != nil {
			return data, DetectMIME(data)
		}
		// ResizeImage always yields JPEG
		return out, "image/jpeg"
	}

	if opts.ConvertToJPEG {
		out, err = s.ConvertToJPEG(ctx, out)
		if err != nil {
			return data, DetectMIME(data)
		}
		return out, "image/jpeg"
	}

	return data, DetectMIME(data)
}

// DetectMIME sniffs the MIME type of image bytes, defaulting to image/jpeg.
func DetectMIME(data []byte) string {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return mime
	default:
		return "image/jpeg"
	}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already within bounds are only
// re-encoded. The result is JPEG-encoded; Catmull-Rom is used for scaling.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x666
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
