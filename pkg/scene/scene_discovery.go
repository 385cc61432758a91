package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExampleSceneID identifies the built-in cave scene
const ExampleSceneID = "example"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "layers"
	Dir         string `json:"dir"`         // Layer directory (layers type only)
	Layers      int    `json:"layers"`      // Number of layer files (layers type only)
}

// ListScenePacks scans root for subdirectories holding *.txt layer files.
// A missing root yields an empty list.
func ListScenePacks(root string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan scene directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		layers, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil || len(layers) == 0 {
			continue
		}

		info := SceneInfo{
			ID:          "layers:" + entry.Name(),
			Name:        entry.Name(),
			DisplayName: titleCase(entry.Name()),
			Type:        "layers",
			Dir:         dir,
			Layers:      len(layers),
		}
		if desc, err := os.ReadFile(filepath.Join(dir, "README")); err == nil {
			info.Description = strings.TrimSpace(string(desc))
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scene followed by the scene packs under root
func ListAllScenes(root string) ([]SceneInfo, error) {
	scenes := []SceneInfo{{
		ID:          ExampleSceneID,
		Name:        "Cave Diorama",
		DisplayName: "Cave Diorama",
		Description: "Stone cave with ore veins and a pool, grass roof and a tree on top",
		Type:        "builtin",
	}}

	packs, err := ListScenePacks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene packs: %w", err)
	}
	return append(scenes, packs...), nil
}

// FindScene returns the scene with the given id
func FindScene(root, id string) (SceneInfo, bool) {
	scenes, err := ListAllScenes(root)
	if err != nil {
		return SceneInfo{}, false
	}
	for _, s := range scenes {
		if s.ID == id {
			return s, true
		}
	}
	return SceneInfo{}, false
}

// titleCase converts a filename-style string to title case
// e.g., "snowy-hills" -> "Snowy Hills"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
