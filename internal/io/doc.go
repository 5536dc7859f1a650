// Package ioutils provides file system utilities for writing exports.
//
// This package contains functions for:
//   - Atomic file writing into an output directory
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//
// # File Operations
//
//	// Write an archive next to other exports
//	path, err := ioutils.WriteFile(ctx, "exports", "F1_Data_2024_Monaco_Grand_Prix.zip", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("exports/2024")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Grand Prix: 2024/05") // Returns "Grand Prix_ 2024_05"
package ioutils
