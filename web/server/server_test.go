package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

// newTestServer serves a scene root holding a single-stone pack "tiny"
func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	pack := filepath.Join(root, "tiny")
	if err := os.Mkdir(pack, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pack, "layer0.txt"), []byte("S\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	palette := loaders.DefaultPalette(t.TempDir(), core.NopLogger{})
	return NewServer(Config{ScenesDir: root}, palette)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Invalid JSON %q: %v", rec.Body.String(), err)
	}
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var scenes []scene.SceneInfo
	decodeJSON(t, rec, &scenes)
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].ID != scene.ExampleSceneID {
		t.Errorf("Expected built-in scene first, got %s", scenes[0].ID)
	}
	if scenes[1].ID != "layers:tiny" || scenes[1].Layers != 1 {
		t.Errorf("Unexpected pack entry: %+v", scenes[1])
	}
}

func TestHandleSceneInfo(t *testing.T) {
	s := newTestServer(t)

	t.Run("Pack scene", func(t *testing.T) {
		rec := get(t, s, "/api/scene?scene=layers:tiny")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp SceneResponse
		decodeJSON(t, rec, &resp)
		if resp.Cubes != 1 {
			t.Errorf("Expected 1 cube, got %d", resp.Cubes)
		}
		if resp.Materials["stone"] != 1 {
			t.Errorf("Expected one stone block, got %v", resp.Materials)
		}
		if resp.Min != [3]float64{-0.5, -0.5, -0.5} || resp.Max != [3]float64{0.5, 0.5, 0.5} {
			t.Errorf("Unexpected bounds %v..%v", resp.Min, resp.Max)
		}
		if len(resp.Palette) == 0 {
			t.Error("Expected palette codes")
		}
	})

	t.Run("Default is the example scene", func(t *testing.T) {
		var resp SceneResponse
		decodeJSON(t, get(t, s, "/api/scene"), &resp)
		if resp.ID != scene.ExampleSceneID || resp.Cubes == 0 {
			t.Errorf("Expected populated example scene, got %+v", resp)
		}
	})

	t.Run("Unknown scene", func(t *testing.T) {
		if rec := get(t, s, "/api/scene?scene=nope"); rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/render?scene=layers:tiny&width=32&height=24&samples=1&from=0,0,5&at=0,0,0")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	renderID := rec.Header().Get("X-Render-ID")
	if renderID == "" {
		t.Error("Expected X-Render-ID header")
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("Expected 32x24 image, got %dx%d", b.Dx(), b.Dy())
	}

	// The render log reaches the console buffer asynchronously
	deadline := time.Now().Add(time.Second)
	for {
		rec := get(t, s, "/api/console?render="+renderID)
		var msgs []ConsoleMessage
		decodeJSON(t, rec, &msgs)
		found := false
		for _, m := range msgs {
			if strings.Contains(m.Message, "Rendering layers:tiny at 32x24") {
				found = true
			}
		}
		if found {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("No console messages recorded for render")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandleRender_Formats(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
		magic       string
	}{
		{"png", "image/png", "\x89PNG"},
		{"jpg", "image/jpeg", "\xFF\xD8"},
		{"bmp", "image/bmp", "BM"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := get(t, s, "/api/render?width=16&height=16&samples=1&format="+tt.format)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, ct)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.magic) {
				t.Errorf("Body does not start with %s header", tt.format)
			}
		})
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"Width too small", "width=8", http.StatusBadRequest},
		{"Height too large", "height=5000", http.StatusBadRequest},
		{"Samples not a number", "samples=lots", http.StatusBadRequest},
		{"Fov out of range", "fov=180", http.StatusBadRequest},
		{"Malformed from", "from=1,2", http.StatusBadRequest},
		{"Camera looks at itself", "from=1,1,1&at=1,1,1", http.StatusBadRequest},
		{"Unsupported format", "format=gif", http.StatusBadRequest},
		{"Unknown scene", "scene=layers:missing&width=16&height=16", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render?"+tt.query)
			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d", tt.code, rec.Code)
			}
			var body map[string]string
			decodeJSON(t, rec, &body)
			if body["error"] == "" {
				t.Error("Expected error message in body")
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	t.Run("Center pixel hits the south face", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=layers:tiny&width=17&height=17&x=8&y=8&from=0,0,5&at=0,0,0")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp InspectResponse
		decodeJSON(t, rec, &resp)
		if !resp.Hit {
			t.Fatal("Expected hit")
		}
		if resp.Material != "stone" || resp.Face != "south" {
			t.Errorf("Expected stone/south, got %s/%s", resp.Material, resp.Face)
		}
		if math.Abs(resp.Distance-4.5) > 1e-9 {
			t.Errorf("Expected distance 4.5, got %f", resp.Distance)
		}
		if resp.Normal != [3]float64{0, 0, 1} {
			t.Errorf("Expected normal +Z, got %v", resp.Normal)
		}
		if resp.Properties["baseColor"] != "#808080" {
			t.Errorf("Expected stone base color, got %v", resp.Properties["baseColor"])
		}
	})

	t.Run("Looking away sees sky", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=layers:tiny&width=17&height=17&from=0,0,5&at=0,0,10")
		var resp InspectResponse
		decodeJSON(t, rec, &resp)
		if resp.Hit {
			t.Errorf("Expected miss, hit %s", resp.Material)
		}
		if resp.Color == "" {
			t.Error("Expected sky color")
		}
	})

	t.Run("Pixel outside image", func(t *testing.T) {
		if rec := get(t, s, "/api/inspect?width=16&height=16&x=16"); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestParseVec3Param(t *testing.T) {
	def := core.NewVec3(1, 2, 3)
	tests := []struct {
		value    string
		expected core.Vec3
		wantErr  bool
	}{
		{"", def, false},
		{"4,5,6", core.NewVec3(4, 5, 6), false},
		{" -1.5, 0 ,2e1", core.NewVec3(-1.5, 0, 20), false},
		{"1,2", core.Vec3{}, true},
		{"a,b,c", core.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("v", tt.value)
			}
			got, err := parseVec3Param(values, "v", def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	values := url.Values{"n": {"7"}, "bad": {"x"}, "big": {"99"}}
	if v, err := parseIntParam(values, "n", 1, 0, 10); err != nil || v != 7 {
		t.Errorf("Expected 7, got %d (%v)", v, err)
	}
	if v, err := parseIntParam(values, "missing", 3, 0, 10); err != nil || v != 3 {
		t.Errorf("Expected default 3, got %d (%v)", v, err)
	}
	if _, err := parseIntParam(values, "bad", 1, 0, 10); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := parseIntParam(values, "big", 1, 0, 10); err == nil {
		t.Error("Expected range error")
	}
}
