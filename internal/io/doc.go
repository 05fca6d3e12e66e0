// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for downloaded images
//   - Atomic file writes (temp file + rename)
//   - Directory creation
//   - Optional image resizing and format conversion
//
// # Filename Sanitization
//
// SanitizeFileName maps a free-text title to a short, filesystem-safe name:
//
//	name := ioutils.SanitizeFileName("Toy Story (1995)", 100) // "Toy_Story_1995_.jpg"
//
// Distinct titles may sanitize to the same name. The later write wins.
//
// # Atomic Writes
//
//	err := ioutils.WriteFileAtomic("/out/poster_image_scores.csv", data)
//
// # Image Processing
//
// The ImageService handles optional poster normalization:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
