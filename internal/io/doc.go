// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Normalizing human-readable strings into safe file and folder names
//   - Exclusive file creation that never overwrites an existing file
//   - Directory creation
//   - Cover art resizing and format conversion
//
// # Name Normalization
//
// Use Normalize to make a title or artist list safe for the file system:
//
//	safe := ioutils.Normalize(`AC/DC: "Live"  `) // Returns "ACDC Live"
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Album")
//
//	// Write a whole buffer, failing with ErrExists if the file is there
//	err := ioutils.WriteNew("/music/Album/Song - Artist.mp3", data)
//
// # Image Processing
//
// The ImageService prepares cover art before it is embedded:
//
//	svc := ioutils.NewImageService()
//	jpeg, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
package ioutils
