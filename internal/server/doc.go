// Package server implements the MCP (Model Context Protocol) server for square
// detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the square
// detection pipeline through the MCP protocol, so an MCP client can locate
// calibration squares in camera frames, tune edge thresholds, and inspect the
// vote accumulator.
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
//   - square_load: Load a frame and get its metadata
//   - square_edge_detect: Preview the binary edge map detection votes over
//   - square_detect: Run detection and return scores and square centers
//   - square_annotate: Run detection and return the frame with boxes drawn
//   - square_heatmap: Run detection and render one accumulator layer
//
// Detection arguments that a call leaves out take the values from the
// config.Config the server was created with.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded frames. Frames are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. the rejected size range
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
