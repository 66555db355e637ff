package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/photo-reader-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_describe", "image_fetch").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolError is the data attached to a failed tool call. Kind lets clients
// branch on the failure class without parsing Detail.
type ToolError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// and a ToolError as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", ToolError{Kind: "invalid_request", Detail: err.Error()})
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.opts.Debug {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", ToolError{
			Kind:   errorKind(err),
			Detail: err.Error(),
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Acquisition
	case "image_describe":
		return s.handleImageDescribe(args)
	case "image_fetch":
		return s.handleImageFetch(args, false)
	case "image_fetch_thumbnail":
		return s.handleImageFetch(args, true)

	// Helpers
	case "image_info":
		return s.handleImageInfo(args)
	case "image_select_tier":
		return s.handleImageSelectTier(args)
	case "image_supported_formats":
		return s.handleImageSupportedFormats()
	case "image_thumbnails":
		return s.handleImageThumbnails(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// errorKind maps an acquisition error to a stable, client-facing name.
func errorKind(err error) string {
	switch {
	case errors.Is(err, imaging.ErrOpen):
		return "open"
	case errors.Is(err, imaging.ErrDecode):
		return "decode"
	case errors.Is(err, imaging.ErrMode):
		return "mode"
	case errors.Is(err, imaging.ErrNotLoaded):
		return "not_loaded"
	case errors.Is(err, imaging.ErrInvalidSettings):
		return "invalid_settings"
	default:
		return "invalid_request"
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments into v. Missing arguments leave v at
// its zero value.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Acquisition Handlers ===

type imageDescribeArgs struct {
	Path      string `json:"path"`
	Thumbnail bool   `json:"thumbnail"`
	LongSide  int    `json:"long_side"`
	Raw       *bool  `json:"raw"`
}

// DescribeResult reports the image loaded by image_describe.
type DescribeResult struct {
	imaging.ImageHeader
	Raw       bool   `json:"raw"`
	Thumbnail bool   `json:"thumbnail"`
	Kind      string `json:"kind"`
}

func (s *Server) handleImageDescribe(args json.RawMessage) (interface{}, error) {
	var a imageDescribeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	settings := imaging.SettingsForPath(a.Path, a.Thumbnail, a.LongSide)
	if a.Raw != nil {
		settings.IsRawImage = *a.Raw
	}

	if _, err := s.session.Describe(a.Path, settings); err != nil {
		return nil, err
	}

	header, _ := s.session.Header()
	return &DescribeResult{
		ImageHeader: header,
		Raw:         settings.IsRawImage,
		Thumbnail:   settings.IsThumbnailMode,
		Kind:        imaging.ClassifyPath(a.Path).String(),
	}, nil
}

type imageFetchArgs struct {
	Encoding string `json:"encoding"`
}

func (s *Server) handleImageFetch(args json.RawMessage, thumbnail bool) (interface{}, error) {
	var a imageFetchArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	fetch := s.session.Fetch
	if thumbnail {
		fetch = s.session.FetchThumbnail
	}
	if err := fetch(&s.scratch); err != nil {
		return nil, err
	}
	return imaging.EncodeBuffer(&s.scratch, a.Encoding)
}

// === Helper Handlers ===

type imageInfoArgs struct {
	Path string `json:"path"`
	Raw  *bool  `json:"raw"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	isRaw := imaging.ClassifyPath(a.Path) == imaging.MediaRaw
	if a.Raw != nil {
		isRaw = *a.Raw
	}
	return s.session.Inspect(a.Path, isRaw)
}

type imageSelectTierArgs struct {
	SourceLongSide    int `json:"source_long_side"`
	RequestedLongSide int `json:"requested_long_side"`
}

// SelectTierResult reports the tier chosen by image_select_tier.
type SelectTierResult struct {
	Tier       string `json:"tier"`
	Divisor    int    `json:"divisor"`
	Resolution int    `json:"resolution"`
}

func (s *Server) handleImageSelectTier(args json.RawMessage) (interface{}, error) {
	var a imageSelectTierArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	tier := imaging.SelectTier(a.SourceLongSide, a.RequestedLongSide)
	return &SelectTierResult{
		Tier:       tier.String(),
		Divisor:    tier.Divisor(),
		Resolution: tier.Resolution(a.SourceLongSide),
	}, nil
}

// SupportedFormatsResult lists the handled file extensions.
type SupportedFormatsResult struct {
	Standard []string `json:"standard"`
	Raw      []string `json:"raw"`
}

func (s *Server) handleImageSupportedFormats() (interface{}, error) {
	standard, raw := imaging.SupportedExtensions()
	return &SupportedFormatsResult{Standard: standard, Raw: raw}, nil
}

type imageThumbnailsArgs struct {
	Directory string `json:"directory"`
	LongSide  int    `json:"long_side"`
	Workers   int    `json:"workers"`
}

// ThumbnailEntry is one file of an image_thumbnails listing. Image is nil
// when Error is set.
type ThumbnailEntry struct {
	Path  string               `json:"path"`
	Kind  string               `json:"kind"`
	Image *imaging.FetchResult `json:"image,omitempty"`
	Error *ToolError           `json:"error,omitempty"`
}

// ThumbnailsResult is the image_thumbnails listing.
type ThumbnailsResult struct {
	Directory string           `json:"directory"`
	LongSide  int              `json:"long_side"`
	Count     int              `json:"count"`
	Failed    int              `json:"failed"`
	Entries   []ThumbnailEntry `json:"entries"`
}

func (s *Server) handleImageThumbnails(args json.RawMessage) (interface{}, error) {
	var a imageThumbnailsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Directory == "" {
		return nil, fmt.Errorf("directory is required")
	}
	if a.LongSide <= 0 {
		a.LongSide = s.opts.ThumbnailLongSide
	}
	if a.Workers <= 0 {
		a.Workers = s.opts.ThumbnailWorkers
	}

	results, err := imaging.GenerateThumbnails(context.Background(), a.Directory, imaging.BatchOptions{
		LongSide: a.LongSide,
		Workers:  a.Workers,
	})
	if err != nil {
		return nil, err
	}

	out := &ThumbnailsResult{
		Directory: a.Directory,
		LongSide:  a.LongSide,
		Count:     len(results),
		Entries:   make([]ThumbnailEntry, 0, len(results)),
	}
	for _, r := range results {
		entry := ThumbnailEntry{Path: r.Path, Kind: r.Kind.String()}
		if r.Err == nil {
			entry.Image, r.Err = imaging.EncodeBuffer(r.Buffer, imaging.EncodingPNG)
		}
		if r.Err != nil {
			entry.Image = nil
			entry.Error = &ToolError{Kind: errorKind(r.Err), Detail: r.Err.Error()}
			out.Failed++
		}
		out.Entries = append(out.Entries, entry)
	}

	if s.opts.Debug {
		log.Printf("Thumbnails for %s: %d files, %d failed", a.Directory, out.Count, out.Failed)
	}
	return out, nil
}
