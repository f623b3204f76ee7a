package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"stitch_add_images",
		"stitch_remove_image",
		"stitch_reorder_images",
		"stitch_list_images",
		"stitch_clear_images",
		"stitch_estimate_overlap",
		"stitch_pair",
		"stitch_run",
		"stitch_seam_diff",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema.properties should be a map")
			}

			// Every required parameter must be declared.
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required parameter %s has no property", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"image_load", []string{"path"}},
		{"stitch_add_images", []string{"paths"}},
		{"stitch_remove_image", []string{"id"}},
		{"stitch_reorder_images", []string{"ids"}},
		{"stitch_estimate_overlap", []string{"path_a", "path_b"}},
		{"stitch_pair", []string{"path_a", "path_b"}},
		{"stitch_seam_diff", []string{"path_a", "path_b", "overlap"}},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, _ := toolMap[tt.tool].InputSchema["required"].([]string)
			if len(got) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", got, tt.required)
			}
			for i := range got {
				if got[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], tt.required[i])
				}
			}
		})
	}
}

func TestToolDefinitions_AxisEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		axis, ok := props["axis"].(map[string]interface{})
		if !ok {
			continue
		}
		enum, _ := axis["enum"].([]string)
		if len(enum) != 2 || enum[0] != "horizontal" || enum[1] != "vertical" {
			t.Errorf("%s: axis enum got %v", tool.Name, enum)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"}

	resp := s.handleToolsList(req)
	if resp.ID != 7 {
		t.Errorf("ID: got %v, want 7", resp.ID)
	}

	// The list must survive the wire.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded struct {
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools after round trip", len(decoded.Result.Tools))
	}
}
