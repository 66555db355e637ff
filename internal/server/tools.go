package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// encodingProperty is shared by the fetch tools.
var encodingProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"png", "bgr"},
	"description": "Transport encoding of the pixels: png (default) or bgr for the packed 8-bit BGR bytes",
	"default":     "png",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Acquisition
		{
			Name:        "image_describe",
			Description: "Decode an image or camera raw file into the server's session and report the byte size and geometry of its pixels. In thumbnail mode the file is decoded at the coarsest sufficient resolution tier and resized to long_side. Must precede image_fetch or image_fetch_thumbnail.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"thumbnail": map[string]interface{}{
						"type":        "boolean",
						"description": "Decode a reduced thumbnail instead of the full image. Default false",
						"default":     false,
					},
					"long_side": map[string]interface{}{
						"type":        "integer",
						"description": "Target long side in pixels. Required in thumbnail mode, ignored otherwise",
					},
					"raw": map[string]interface{}{
						"type":        "boolean",
						"description": "Force (true) or suppress (false) the camera raw pipeline. Default: decided by the file extension",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_fetch",
			Description: "Return the pixels of the image loaded by the last successful image_describe, in either mode.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"encoding": encodingProperty,
				},
			},
		},
		{
			Name:        "image_fetch_thumbnail",
			Description: "Return the pixels of the image loaded by the last successful image_describe. Fails unless that call used thumbnail mode.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"encoding": encodingProperty,
				},
			},
		},

		// Helpers
		{
			Name:        "image_info",
			Description: "Read an image's format and dimensions from its header without decoding pixels. For camera raw files the dimensions are those of the embedded preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"raw": map[string]interface{}{
						"type":        "boolean",
						"description": "Force (true) or suppress (false) the camera raw pipeline. Default: decided by the file extension",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_select_tier",
			Description: "Report the decode tier (full, half, quarter or eighth) that would be used to produce a thumbnail of the requested long side from a source of the given long side.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source_long_side": map[string]interface{}{
						"type":        "integer",
						"description": "Long side of the source image in pixels",
					},
					"requested_long_side": map[string]interface{}{
						"type":        "integer",
						"description": "Requested thumbnail long side in pixels",
					},
				},
				"required": []string{"source_long_side", "requested_long_side"},
			},
		},
		{
			Name:        "image_supported_formats",
			Description: "List the file extensions handled as standard images and as camera raw files.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_thumbnails",
			Description: "Decode a PNG thumbnail for every supported image directly inside a directory, sorted by file name. Files that fail to decode are listed with their error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"directory": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory",
					},
					"long_side": map[string]interface{}{
						"type":        "integer",
						"description": "Thumbnail long side in pixels. Default 100",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of files decoded in parallel. Default: number of CPUs",
					},
				},
				"required": []string{"directory"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
