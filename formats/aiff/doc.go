// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF and AIFC files through
// github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported. Compressed AIFC
// encodings are rejected as ErrNotAiffFile by the underlying parser.
package aiff
