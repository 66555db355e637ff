// Package server implements the MCP (Model Context Protocol) server for photo
// acquisition.
//
// This package provides a JSON-RPC 2.0 server that exposes the two-step
// Describe/Fetch acquisition protocol of package imaging through MCP, so a
// front end can load full images or fast thumbnails of standard and camera raw
// files.
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
// Acquisition:
//   - image_describe: Decode a file into the session, report size and geometry
//   - image_fetch: Return the loaded pixels (PNG or packed BGR)
//   - image_fetch_thumbnail: As image_fetch, only for thumbnail-mode loads
//
// Helpers:
//   - image_info: Read format and dimensions from the header only
//   - image_select_tier: Report the decode tier for a thumbnail request
//   - image_supported_formats: List standard and raw extensions
//   - image_thumbnails: Thumbnail every image in a directory
//
// # Session
//
// The server owns a single imaging.Session. Requests are handled strictly in
// order, so a describe and the fetches that follow it always see the same
// image. A failed describe leaves the previously loaded image in place.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: a ToolError whose kind is one of open, decode, mode, not_loaded,
//     invalid_settings or invalid_request
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(server.Options{})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
