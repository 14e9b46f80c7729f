package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the frame path argument every tool takes.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the frame image file",
}

// cropProperty is the optional region-of-interest argument.
var cropProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional region of interest. Detection runs on this region only and coordinates in the result are relative to it.",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
		"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
		"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
		"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
	},
	"required": []string{"x1", "y1", "x2", "y2"},
}

// edgeProperties returns the preprocessing arguments.
func edgeProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"crop": cropProperty,
		"threshold_low": map[string]interface{}{
			"type":        "integer",
			"description": "Canny low threshold (0-255). Swapped with threshold_high if larger.",
			"default":     23,
		},
		"threshold_high": map[string]interface{}{
			"type":        "integer",
			"description": "Canny high threshold (0-255)",
			"default":     20,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius in pixels applied before edge detection. 0 disables blur.",
			"default":     3.0,
		},
		"edge_map": map[string]interface{}{
			"type":        "boolean",
			"description": "The frame is already an edge map from another tool: binarize it instead of blurring and running Canny",
			"default":     false,
		},
	}
}

// detectProperties returns the arguments shared by every tool that runs the
// full detection pipeline. Omitted arguments fall back to the server's
// configured defaults.
func detectProperties() map[string]interface{} {
	props := edgeProperties()
	for name, prop := range map[string]interface{}{
		"length": map[string]interface{}{
			"type":        "number",
			"description": "Square edge length in pixels. Must be a whole number.",
			"default":     80,
		},
		"min_length": map[string]interface{}{
			"type":        "number",
			"description": "Smallest edge length to vote for. Defaults to length.",
		},
		"max_length": map[string]interface{}{
			"type":        "number",
			"description": "Largest edge length to vote for. Defaults to length.",
		},
		"rotate": map[string]interface{}{
			"type":        "number",
			"description": "Accepted for compatibility; squares are always axis-aligned.",
		},
		"strategy": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"exhaustive", "adaptive"},
			"description": "exhaustive votes at every edge pixel; adaptive samples edge pixels randomly within a budget",
			"default":     "adaptive",
		},
		"seed": map[string]interface{}{
			"type":        "integer",
			"description": "Seed for the adaptive sampler. The same seed reproduces the same result.",
			"default":     1,
		},
		"budget": map[string]interface{}{
			"type":        "integer",
			"description": "Number of probes the adaptive sampler makes",
			"default":     15000,
		},
		"score_min": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum votes for a square to be reported",
			"default":     90,
		},
		"score_max": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum votes for a square to be reported. 0 means no maximum.",
			"default":     0,
		},
		"limit": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of squares to report. 0 means no limit.",
			"default":     10,
		},
		"legacy_left_column": map[string]interface{}{
			"type":        "boolean",
			"description": "Reproduce the first detector release, whose left square side never voted",
			"default":     false,
		},
	} {
		props[name] = prop
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotateProps := detectProperties()
	annotateProps["box_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color of the detection boxes",
		"default":     "#00FF00",
	}
	annotateProps["guide"] = map[string]interface{}{
		"type":        "object",
		"description": "Optional reference rectangle drawn in blue, in the same coordinates as the result",
		"properties":  cropProperty["properties"],
		"required":    []string{"x1", "y1", "x2", "y2"},
	}

	heatmapProps := detectProperties()
	heatmapProps["edge_length"] = map[string]interface{}{
		"type":        "integer",
		"description": "Edge length of the accumulator layer to render. Defaults to the layer with the highest vote.",
	}

	return []Tool{
		{
			Name:        "square_load",
			Description: "Load a frame and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "square_edge_detect",
			Description: "Run blur, grayscale and Canny edge detection on a frame and return the binary edge map as base64-encoded PNG. Use this to tune thresholds before detecting.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": edgeProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "square_detect",
			Description: "Detect axis-aligned squares of a given edge length by perimeter voting. Returns per-length vote statistics and every square center whose score falls in the score range.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "square_annotate",
			Description: "Detect squares and return the frame with each detection boxed and labelled with its score, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": annotateProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "square_heatmap",
			Description: "Detect squares and render one accumulator layer as a heatmap PNG (base64), showing where square centers collected votes.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": heatmapProps,
				"required":   []string{"path"},
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
