// Package imaging moves images between files and stitch.PixelBuffer values.
//
// It is the boundary between the stitching engine and the outside world:
// decoding source files, encoding results, and producing diagnostic images
// that explain how a seam was chosen.
//
// # Decoding
//
// DecodeFile and DecodeBytes accept PNG, JPEG, GIF, BMP, TIFF and WebP. The
// format is detected from the content. JPEG EXIF orientation is applied, and
// every image is converted to non-premultiplied 8-bit RGBA with its origin at
// (0,0). Failures are returned as *stitch.DecodeError.
//
// DecodeAll decodes a list of files concurrently but returns them in input
// order, and fails as a whole if any single file fails. Decoded buffers are
// never cached; each stitch reads its inputs fresh.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Diagnostics
//
// SeamDiff renders the difference between two overlapping strips, MarkSeams
// draws every seam of a finished reduction onto a copy of the panorama, and
// SummarizeSeams reduces the seam list to counts and score statistics.
// Downscale produces a smaller preview for clients that cannot take a full
// resolution panorama.
//
// # Output
//
// Results are always PNG so that transparent background pixels survive.
// EncodePNGBase64 returns the data inline for MCP responses; SavePNG writes a
// file.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package imaging
