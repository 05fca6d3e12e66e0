package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageOptions selects the optional post-processing applied to a poster
// before it is stored. The zero value disables all processing.
type ImageOptions struct {
	// ConvertToJPEG re-encodes the image as JPEG.
	ConvertToJPEG bool

	// Resize fits the image within MaxSize x MaxSize pixels.
	Resize bool

	// MaxSize is the bounding box edge used when Resize is set.
	MaxSize int
}

// Enabled reports whether any processing is requested.
func (o ImageOptions) Enabled() bool {
	return o.ConvertToJPEG || (o.Resize && o.MaxSize > 0)
}

// ImageService provides image processing operations for downloaded posters.
//
// ImageService is used to:
//   - Resize posters to fit maximum dimensions
//   - Convert posters to JPEG so the content matches the .jpg file name
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Resize to max 500x500 and convert to JPEG
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, resized)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Process applies opts to data.
//
// When opts disables everything, data is returned unchanged without being
// decoded. A decode error is returned as-is; the caller decides whether to
// keep the original bytes.
func (s *ImageService) Process(ctx context.Context, data []byte, opts ImageOptions) ([]byte, error) {
	if !opts.Enabled() {
		return data, nil
	}
	if opts.Resize && opts.MaxSize > 0 {
		// ResizeImage always produces JPEG output.
		return s.ResizeImage(ctx, data, opts.MaxSize, opts.MaxSize)
	}
	return s.ConvertToJPEG(ctx, data)
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be processed (re-encoded as JPEG).
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (JPEG, PNG, GIF, WebP, BMP)
//   - maxWidth: Maximum width in pixels
//   - maxHeight: Maximum height in pixels
//
// Returns the resized image as JPEG-encoded bytes.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// Resize to fit within 1000x1000, maintaining aspect ratio
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
//	// A 800x600 image remains 800x600 (but re-encoded)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (JPEG, PNG, GIF, WebP, BMP)
//
// Returns the image as JPEG-encoded bytes with 90% quality.
//
// Note: If the input is already JPEG, it will be re-encoded, which may
// slightly change file size but ensures consistent encoding.
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

// fitWithin scales width x height down to fit maxWidth x maxHeight,
// keeping the aspect ratio. Images that already fit are left alone.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
