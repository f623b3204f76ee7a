package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-stitch-mcp/internal/imageset"
	"github.com/ironsheep/image-stitch-mcp/internal/imaging"
	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "stitch_run").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Image Set Management
	case "stitch_add_images":
		return s.handleAddImages(args)
	case "stitch_remove_image":
		return s.handleRemoveImage(args)
	case "stitch_reorder_images":
		return s.handleReorderImages(args)
	case "stitch_list_images":
		return s.listResult(), nil
	case "stitch_clear_images":
		s.images.Clear()
		return s.listResult(), nil

	// Stitching
	case "stitch_estimate_overlap":
		return s.handleEstimateOverlap(args)
	case "stitch_pair":
		return s.handleStitchPair(args)
	case "stitch_run":
		return s.handleStitchRun(args)
	case "stitch_seam_diff":
		return s.handleSeamDiff(args)

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

// parseAxis falls back to the configured axis when name is empty.
func (s *Server) parseAxis(name string) (stitch.Axis, error) {
	if name == "" {
		return s.axis, nil
	}
	axis, err := stitch.ParseAxis(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", stitch.ErrInvalidArgument, err)
	}
	return axis, nil
}

// export writes buf to outputPath, or encodes it inline when outputPath is empty.
func export(buf *stitch.PixelBuffer, outputPath string) (*imaging.ExportResult, error) {
	if outputPath == "" {
		return imaging.EncodePNGBase64(buf)
	}
	return imaging.SavePNG(buf, outputPath)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(a.Path)
}

// === Image Set Handlers ===

// ImageListResult is returned by every tool that changes the stitch list.
type ImageListResult struct {
	Count  int             `json:"count"`
	Images []imageset.Item `json:"images"`
}

// AddImagesResult reports which paths were accepted.
type AddImagesResult struct {
	Added    []imageset.Item `json:"added"`
	Rejected int             `json:"rejected"`
	ImageListResult
}

func (s *Server) listResult() *ImageListResult {
	images := s.images.Snapshot()
	return &ImageListResult{Count: len(images), Images: images}
}

type addImagesArgs struct {
	Paths []string `json:"paths"`
}

func (s *Server) handleAddImages(args json.RawMessage) (interface{}, error) {
	var a addImagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("%w: paths is empty", stitch.ErrInvalidArgument)
	}

	// Stat everything first so a bad path adds nothing.
	candidates := make([]imageset.Candidate, 0, len(a.Paths))
	for _, p := range a.Paths {
		c, err := imageset.CandidateFromFile(p)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	added := s.images.Add(candidates...)
	if added == nil {
		added = []imageset.Item{}
	}
	return &AddImagesResult{
		Added:           added,
		Rejected:        len(candidates) - len(added),
		ImageListResult: *s.listResult(),
	}, nil
}

type removeImageArgs struct {
	ID string `json:"id"`
}

// RemoveImageResult reports whether the id was present.
type RemoveImageResult struct {
	Removed bool `json:"removed"`
	ImageListResult
}

func (s *Server) handleRemoveImage(args json.RawMessage) (interface{}, error) {
	var a removeImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	removed := s.images.Remove(a.ID)
	return &RemoveImageResult{Removed: removed, ImageListResult: *s.listResult()}, nil
}

type reorderImagesArgs struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleReorderImages(args json.RawMessage) (interface{}, error) {
	var a reorderImagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.images.Reorder(a.IDs); err != nil {
		return nil, err
	}
	return s.listResult(), nil
}

// === Stitching Handlers ===

type pairArgs struct {
	PathA      string `json:"path_a"`
	PathB      string `json:"path_b"`
	Axis       string `json:"axis"`
	Overlap    *int   `json:"overlap"`
	OutputPath string `json:"output_path"`
}

// decodePair parses the axis and decodes both images concurrently.
func (s *Server) decodePair(a pairArgs) (*stitch.PixelBuffer, *stitch.PixelBuffer, stitch.Axis, error) {
	axis, err := s.parseAxis(a.Axis)
	if err != nil {
		return nil, nil, 0, err
	}
	bufs, err := imaging.DecodeAll(context.Background(), []string{a.PathA, a.PathB}, s.cfg.DecodeWorkers)
	if err != nil {
		return nil, nil, 0, err
	}
	return bufs[0], bufs[1], axis, nil
}

// EstimateOverlapResult is the estimator's verdict for one pair.
type EstimateOverlapResult struct {
	Axis    stitch.Axis `json:"axis"`
	Overlap int         `json:"overlap"`
	Score   float64     `json:"score"`
	Found   bool        `json:"found"`
}

func (s *Server) handleEstimateOverlap(args json.RawMessage) (interface{}, error) {
	var a pairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bufA, bufB, axis, err := s.decodePair(a)
	if err != nil {
		return nil, err
	}
	est := s.engine.Estimate(bufA, bufB, axis)
	return &EstimateOverlapResult{
		Axis:    axis,
		Overlap: est.Amount,
		Score:   est.Score,
		Found:   est.Found(),
	}, nil
}

// StitchResult describes a finished panorama.
type StitchResult struct {
	Message string               `json:"message"`
	Axis    stitch.Axis          `json:"axis"`
	Method  string               `json:"method,omitempty"`
	Seams   []stitch.Seam        `json:"seams,omitempty"`
	Summary *imaging.SeamSummary `json:"summary,omitempty"`
	*imaging.ExportResult
}

func (s *Server) handleStitchPair(args json.RawMessage) (interface{}, error) {
	var a pairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bufA, bufB, axis, err := s.decodePair(a)
	if err != nil {
		return nil, err
	}

	var seam stitch.Seam
	if a.Overlap != nil {
		seam = stitch.Seam{Index: 1, Overlap: *a.Overlap, Found: *a.Overlap > 0}
		if *a.Overlap > 0 {
			seam.Score = stitch.Score(bufA, bufB, axis, *a.Overlap)
		}
	} else {
		est := s.engine.Estimate(bufA, bufB, axis)
		seam = stitch.Seam{Index: 1, Overlap: est.Amount, Score: est.Score, Found: est.Found()}
	}

	seam.Offset = bufA.Extent(axis) - seam.Overlap

	merged, err := s.engine.Composite(bufA, bufB, axis, seam.Overlap)
	if err != nil {
		return nil, err
	}
	out, err := export(merged, a.OutputPath)
	if err != nil {
		return nil, err
	}

	res := &stitch.Result{Image: merged, Axis: axis, Seams: []stitch.Seam{seam}}
	return &StitchResult{
		Message:      stitch.Describe(res, nil),
		Axis:         axis,
		Seams:        res.Seams,
		ExportResult: out,
	}, nil
}

type stitchRunArgs struct {
	Axis         string `json:"axis"`
	Method       string `json:"method"`
	OutputPath   string `json:"output_path"`
	MarkSeams    bool   `json:"mark_seams"`
	MaxDimension int    `json:"max_dimension"`
}

// describedError carries the user-facing message for a failed run while
// keeping the cause available to errors.Is.
type describedError struct {
	msg string
	err error
}

func (e *describedError) Error() string { return e.msg }
func (e *describedError) Unwrap() error { return e.err }

func (s *Server) handleStitchRun(args json.RawMessage) (interface{}, error) {
	var a stitchRunArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	axis, err := s.parseAxis(a.Axis)
	if err != nil {
		return nil, err
	}

	var stitcher stitch.Stitcher
	switch a.Method {
	case "", "overlap":
		a.Method = "overlap"
	case "opencv":
		if stitcher, err = stitch.NewOpenCVStitcher(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown method %q", stitch.ErrInvalidArgument, a.Method)
	}

	items, err := s.images.Begin()
	if err != nil {
		return nil, err
	}
	defer s.images.End()

	res, err := s.runItems(items, axis, stitcher)
	if err != nil {
		return nil, &describedError{msg: stitch.Describe(nil, err), err: err}
	}

	img := res.Image
	if a.MarkSeams && len(res.Seams) > 0 {
		if img, err = imaging.MarkSeams(res); err != nil {
			return nil, err
		}
	}
	if img, err = imaging.Downscale(img, a.MaxDimension); err != nil {
		return nil, err
	}

	out, err := export(img, a.OutputPath)
	if err != nil {
		return nil, err
	}

	result := &StitchResult{
		Message:      stitch.Describe(res, nil),
		Axis:         axis,
		Method:       a.Method,
		Seams:        res.Seams,
		ExportResult: out,
	}
	if len(res.Seams) > 0 {
		summary := imaging.SummarizeSeams(res.Seams)
		result.Summary = &summary
	}
	return result, nil
}

// runItems decodes the snapshot and reduces it. A nil stitcher selects the
// overlap engine.
func (s *Server) runItems(items []imageset.Item, axis stitch.Axis, stitcher stitch.Stitcher) (*stitch.Result, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: the stitch list has %d image(s)", stitch.ErrInsufficientInputs, len(items))
	}

	paths := make([]string, len(items))
	for i, it := range items {
		paths[i] = it.Path
	}

	ctx := context.Background()
	bufs, err := imaging.DecodeAll(ctx, paths, s.cfg.DecodeWorkers)
	if err != nil {
		return nil, err
	}

	if stitcher == nil {
		return s.engine.ReduceContext(ctx, bufs, axis)
	}
	pano, err := stitcher.Stitch(bufs)
	if err != nil {
		return nil, err
	}
	return &stitch.Result{Image: pano, Axis: axis}, nil
}

type seamDiffArgs struct {
	PathA   string `json:"path_a"`
	PathB   string `json:"path_b"`
	Axis    string `json:"axis"`
	Overlap int    `json:"overlap"`
}

func (s *Server) handleSeamDiff(args json.RawMessage) (interface{}, error) {
	var a seamDiffArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bufA, bufB, axis, err := s.decodePair(pairArgs{PathA: a.PathA, PathB: a.PathB, Axis: a.Axis})
	if err != nil {
		return nil, err
	}
	return imaging.SeamDiff(bufA, bufB, axis, a.Overlap, s.engine.Options().Threshold)
}
