// Package server implements the MCP (Model Context Protocol) server for image stitching.
//
// This package provides a JSON-RPC 2.0 server that exposes an ordered stitch
// list and the overlap stitching engine through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Read format and dimensions from the file header
//   - image_dimensions: Get width and height
//
// Stitch List:
//   - stitch_add_images: Append files, skipping duplicates by name and size
//   - stitch_remove_image: Remove by id
//   - stitch_reorder_images: Replace the order with a permutation of ids
//   - stitch_list_images: Show the list in stitch order
//   - stitch_clear_images: Empty the list
//
// Stitching:
//   - stitch_estimate_overlap: Estimate the overlap of two images
//   - stitch_pair: Join two images
//   - stitch_run: Stitch the whole list into a panorama
//   - stitch_seam_diff: Visualise how well a seam lines up
//
// # State
//
// One stitch list lives for the lifetime of the process. Decoded pixels are
// not kept between calls; stitch_run decodes a snapshot of the list, so edits
// made while it runs do not affect the result. Only one stitch_run may hold
// the list at a time.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details; for stitch_run, the message meant for
//     the end user
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
