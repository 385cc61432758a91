package server

import (
	"fmt"
	"image/color"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for block inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Material   string                 `json:"material,omitempty"`
	Face       string                 `json:"face,omitempty"`
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	UV         [2]float64             `json:"uv"`
	Color      string                 `json:"color"` // Shaded color at the pixel
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo lists the block material settings
func extractMaterialInfo(mat *material.Material, face material.Face, u, v float64) map[string]interface{} {
	properties := map[string]interface{}{
		"baseColor":       hexColor(mat.BaseColor),
		"surfaceColor":    hexColor(mat.ColorAt(face, u, v)),
		"reflectivity":    mat.Reflectivity,
		"transparency":    mat.Transparency,
		"refractiveIndex": mat.RefractiveIndex,
	}

	textured := make([]string, 0, material.FaceCount)
	for f, tex := range mat.Textures {
		if tex != nil {
			textured = append(textured, material.Face(f).String())
		}
	}
	if len(textured) > 0 {
		properties["texturedFaces"] = textured
	}
	return properties
}

// handleInspect casts the primary ray through pixel (x, y) and reports the
// block it hits
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()
	req, err := parseRenderRequest(values)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	x, err := parseIntParam(values, "x", req.Width/2, 0, req.Width-1)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	y, err := parseIntParam(values, "y", req.Height/2, 0, req.Height-1)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	sc, err := s.loadScene(req.Scene, core.NopLogger{})
	if err != nil {
		return jsonError(c, http.StatusNotFound, err)
	}

	// Same unjittered mapping as the renderer: row 0 is the top of the image
	u := float64(x) / float64(req.Width-1)
	v := float64(req.Height-1-y) / float64(req.Height-1)
	ray := req.camera().GetRay(u, v)

	rt := renderer.NewRaytracer(sc, renderer.DefaultShadingConfig())
	resp := InspectResponse{Color: hexVec(rt.Trace(ray, 0))}

	if hit, ok := rt.Intersect(ray); ok {
		resp.Hit = true
		resp.Material = hit.Material.Name
		resp.Face = hit.Face.String()
		resp.Point = vecArray(hit.Point)
		resp.Normal = vecArray(hit.Normal)
		resp.Distance = hit.T * ray.Direction.Length()
		resp.UV = [2]float64{hit.U, hit.V}
		resp.Properties = extractMaterialInfo(hit.Material, hit.Face, hit.U, hit.V)
	}

	return c.JSON(http.StatusOK, resp)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func hexVec(v core.Vec3) string {
	c := v.Sqrt().Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
