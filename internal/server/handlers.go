package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/square-hough/internal/detection"
	"github.com/ironsheep/square-hough/internal/hough"
	"github.com/ironsheep/square-hough/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "square_load", "square_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors, including rejected detection parameters, return a
// JSON-RPC error response with code -32000 and the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("Tool %s failed after %v: %v", params.Name, time.Since(start), err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	if s.cfg.Debug() {
		log.Printf("Tool %s completed in %v", params.Name, time.Since(start))
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted parameters from the server configuration
//  3. Loads the frame from cache
//  4. Calls the appropriate imaging/detection function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "square_load":
		return s.handleSquareLoad(args)
	case "square_edge_detect":
		return s.handleSquareEdgeDetect(args)
	case "square_detect":
		return s.handleSquareDetect(args)
	case "square_annotate":
		return s.handleSquareAnnotate(args)
	case "square_heatmap":
		return s.handleSquareHeatmap(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// regionArgs is a rectangle argument; (x2, y2) is exclusive.
type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r *regionArgs) rect() *image.Rectangle {
	if r == nil {
		return nil
	}
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2)
	return &rect
}

// ImageResult is a PNG returned inline.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64"`
}

func newImageResult(img image.Image) (*ImageResult, error) {
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		MimeType:    "image/png",
		ImageBase64: encoded,
	}, nil
}

// === Frame Information ===

type squareLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSquareLoad(args json.RawMessage) (interface{}, error) {
	var a squareLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Edge Detection ===

type edgeArgs struct {
	Path          string      `json:"path"`
	Crop          *regionArgs `json:"crop"`
	ThresholdLow  *int        `json:"threshold_low"`
	ThresholdHigh *int        `json:"threshold_high"`
	BlurRadius    *float64    `json:"blur_radius"`
	EdgeMap       *bool       `json:"edge_map"`
}

// preprocess returns the configured preprocessing options with a's
// overrides applied.
func (s *Server) preprocess(a edgeArgs) imaging.PreprocessOptions {
	opts := s.cfg.Detection().Preprocess
	if a.ThresholdLow != nil {
		opts.ThresholdLow = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		opts.ThresholdHigh = *a.ThresholdHigh
	}
	if a.BlurRadius != nil {
		opts.BlurRadius = *a.BlurRadius
	}
	if a.EdgeMap != nil {
		opts.EdgeMap = *a.EdgeMap
	}
	return opts
}

// EdgeDetectResult is the square_edge_detect output.
type EdgeDetectResult struct {
	ImageResult
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleSquareEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a edgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	crop := a.Crop.rect()
	if crop == nil {
		crop = s.cfg.Crop
	}
	if crop != nil {
		img, err = imaging.CropRect(img, *crop)
		if err != nil {
			return nil, err
		}
	}

	edges := imaging.Preprocess(img, s.preprocess(a))
	res, err := newImageResult(edges)
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{
		ImageResult: *res,
		EdgePixels:  hough.EdgeImageFromGray(edges).EdgeCount(),
	}, nil
}

// === Detection ===

type detectArgs struct {
	edgeArgs

	Length           *float64 `json:"length"`
	MinLength        *float64 `json:"min_length"`
	MaxLength        *float64 `json:"max_length"`
	Rotate           *float64 `json:"rotate"`
	Strategy         *string  `json:"strategy"`
	Seed             *uint64  `json:"seed"`
	Budget           *int     `json:"budget"`
	ScoreMin         *uint64  `json:"score_min"`
	ScoreMax         *uint64  `json:"score_max"`
	Limit            *int     `json:"limit"`
	LegacyLeftColumn *bool    `json:"legacy_left_column"`
}

// detectionConfig merges a over the server configuration. Giving a length
// without a range resets the range to that length.
func (s *Server) detectionConfig(a detectArgs) (detection.Config, error) {
	cfg := s.cfg.Detection()
	cfg.Preprocess = s.preprocess(a.edgeArgs)
	if crop := a.Crop.rect(); crop != nil {
		cfg.Crop = crop
	}

	if a.Length != nil {
		cfg.Params.Length = *a.Length
		cfg.Params.MinLength, cfg.Params.MaxLength = nil, nil
	}
	if a.MinLength != nil {
		cfg.Params.MinLength = a.MinLength
	}
	if a.MaxLength != nil {
		cfg.Params.MaxLength = a.MaxLength
	}
	if a.Rotate != nil {
		cfg.Params.Rotate = *a.Rotate
	}
	if a.Strategy != nil {
		st, err := detection.ParseStrategy(*a.Strategy)
		if err != nil {
			return cfg, err
		}
		cfg.Strategy = st
	}
	if a.Seed != nil {
		cfg.Seed = *a.Seed
	}
	if a.Budget != nil {
		cfg.Options.Budget = *a.Budget
	}
	if a.ScoreMin != nil {
		cfg.Score.Min = *a.ScoreMin
	}
	if a.ScoreMax != nil {
		cfg.Score.Max = *a.ScoreMax
	}
	if a.Limit != nil {
		cfg.Limit = *a.Limit
	}
	if a.LegacyLeftColumn != nil {
		cfg.Options.Sides = hough.AllSides
		if *a.LegacyLeftColumn {
			cfg.Options.Sides = hough.LegacySides
		}
	}
	return cfg, nil
}

// detect loads the frame named in a and runs the pipeline over it. The
// merged configuration is returned with the result.
func (s *Server) detect(a detectArgs) (*detection.Detection, detection.Config, error) {
	cfg, err := s.detectionConfig(a)
	if err != nil {
		return nil, cfg, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, cfg, err
	}
	det, err := detection.Run(img, cfg)
	if err != nil {
		return nil, cfg, err
	}
	if s.cfg.Debug() {
		log.Printf("Detected %d squares in %s (%s, %d edge pixels, %.1fms voting)",
			det.Result.Count, a.Path, det.Result.Strategy, det.Result.EdgePixels, det.Result.ElapsedMS)
	}
	return det, cfg, nil
}

func (s *Server) handleSquareDetect(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	det, _, err := s.detect(a)
	if err != nil {
		return nil, err
	}
	return det.Result, nil
}

type annotateArgs struct {
	detectArgs

	BoxColor string      `json:"box_color"`
	Guide    *regionArgs `json:"guide"`
}

// AnnotateResult is the square_annotate output.
type AnnotateResult struct {
	ImageResult
	Count   int                `json:"count"`
	Squares []detection.Square `json:"squares"`
}

func (s *Server) handleSquareAnnotate(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	det, cfg, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}

	out, err := imaging.Annotate(det.Frame, detection.Markers(det.Result.Squares), imaging.AnnotateOptions{
		BoxColor:  a.BoxColor,
		Guide:     a.Guide.rect(),
		LabelSeed: cfg.Seed,
	})
	if err != nil {
		return nil, err
	}
	res, err := newImageResult(out)
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{
		ImageResult: *res,
		Count:       det.Result.Count,
		Squares:     det.Result.Squares,
	}, nil
}

type heatmapArgs struct {
	detectArgs

	EdgeLength *int `json:"edge_length"`
}

// HeatmapResult is the square_heatmap output.
type HeatmapResult struct {
	EdgeLength  int    `json:"edge_length"`
	MaxVotes    uint64 `json:"max_votes"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) handleSquareHeatmap(args json.RawMessage) (interface{}, error) {
	var a heatmapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	det, _, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}

	hottest, _ := detection.Hottest(det.Result.Layers)
	length := hottest.EdgeLength
	if a.EdgeLength != nil {
		length = *a.EdgeLength
	}
	layer, ok := det.Stack.Layer(length)
	if !ok {
		return nil, fmt.Errorf("edge length %d outside the voted range %d..%d",
			length, det.Stack.MinLength, det.Stack.EdgeLength(det.Stack.Len()-1))
	}

	data, err := imaging.Heatmap(layer, imaging.HeatmapOptions{
		Title: fmt.Sprintf("%s (L=%d)", a.Path, length),
	})
	if err != nil {
		return nil, err
	}

	stats := detection.Stats(layer, length)
	return &HeatmapResult{
		EdgeLength:  length,
		MaxVotes:    stats.MaxVotes,
		MimeType:    "image/png",
		ImageBase64: base64.StdEncoding.EncodeToString(data),
	}, nil
}
