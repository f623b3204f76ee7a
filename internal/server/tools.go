package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

func axisProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"horizontal", "vertical"},
		"description": "Stitch direction. horizontal joins left to right, vertical joins top to bottom. Defaults to the server's configured axis.",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional absolute path to write the result as PNG. When omitted the image is returned base64-encoded.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Read an image file's header and return its dimensions, format and color model without decoding the pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Image Set Management
		{
			Name:        "stitch_add_images",
			Description: "Append image files to the stitch list. Files whose name and size match an image already in the list are skipped. Returns the accepted images with their ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files, in stitch order",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "stitch_remove_image",
			Description: "Remove one image from the stitch list by id. Removing an unknown id is not an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Image id returned by stitch_add_images or stitch_list_images",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "stitch_reorder_images",
			Description: "Set the stitch order. ids must list every image currently in the list exactly once.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Every image id, in the new order",
					},
				},
				"required": []string{"ids"},
			},
		},
		{
			Name:        "stitch_list_images",
			Description: "List the images in the stitch list in stitch order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "stitch_clear_images",
			Description: "Remove every image from the stitch list.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Stitching
		{
			Name:        "stitch_estimate_overlap",
			Description: "Estimate how many pixels the end of the first image shares with the start of the second along the axis. An overlap of 0 means none was found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty("Absolute path to the left (or upper) image"),
					"path_b": pathProperty("Absolute path to the right (or lower) image"),
					"axis":   axisProperty(),
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "stitch_pair",
			Description: "Join two images along the axis. Uses the estimated overlap unless one is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty("Absolute path to the left (or upper) image"),
					"path_b": pathProperty("Absolute path to the right (or lower) image"),
					"axis":   axisProperty(),
					"overlap": map[string]interface{}{
						"type":        "integer",
						"description": "Optional overlap in pixels. Must be less than the smaller image's extent along the axis.",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "stitch_run",
			Description: "Stitch every image in the stitch list, in order, into one panorama. Reports each seam and whether its overlap was detected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"axis": axisProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"overlap", "opencv"},
						"description": "overlap (default) slides the images along the axis. opencv hands the set to OpenCV's panorama stitcher when the server was built with it.",
						"default":     "overlap",
					},
					"output_path": outputPathProperty(),
					"mark_seams": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each seam on the result: green lines around a detected overlap, red where images were joined edge to edge.",
						"default":     false,
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Optional limit on the longer side of the returned image. The panorama is downscaled to fit; seam offsets still refer to full size.",
					},
				},
			},
		},
		{
			Name:        "stitch_seam_diff",
			Description: "Render the per-pixel difference between the overlapping strips of two images at a given overlap, with its mean difference score. Use this to check a seam reported by stitch_run.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty("Absolute path to the left (or upper) image"),
					"path_b": pathProperty("Absolute path to the right (or lower) image"),
					"axis":   axisProperty(),
					"overlap": map[string]interface{}{
						"type":        "integer",
						"description": "Overlap in pixels to inspect",
					},
				},
				"required": []string{"path_a", "path_b", "overlap"},
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
