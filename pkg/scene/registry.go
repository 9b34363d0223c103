package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// SceneInfo describes a built-in scene for listings
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Lookup
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
	Width       int    `json:"width"`  // Suggested image width
	Height      int    `json:"height"` // Suggested image height
}

type builder func(seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error)

type entry struct {
	description string
	build       builder
}

var registry = map[string]entry{
	"random": {
		description: "Hundreds of small random spheres around three large glass, diffuse and metal ones",
		build:       NewRandomScene,
	},
	"default": {
		description: "Diffuse, fuzzy metal and diamond spheres on a yellow ground",
		build: func(_ int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
			return NewDefaultScene(cameraOverrides...)
		},
	},
	"hollow-glass": {
		description: "A thin glass bubble made from a sphere with negative radius",
		build: func(_ int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
			return NewHollowGlassScene(cameraOverrides...)
		},
	},
}

// Names lists every scene name accepted by Lookup, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named scene. Only the random scene uses seed.
func Lookup(name string, seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	s, err := e.build(seed, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", name, err)
	}
	return s, nil
}

// ListScenes describes every built-in scene, sorted by name
func ListScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		// Building is cheap and gives the real suggested size
		s, err := Lookup(name, 0)
		if err != nil {
			continue
		}
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: registry[name].description,
			Width:       s.Width,
			Height:      s.Height,
		})
	}
	return scenes
}

// titleCase converts a name to title case, e.g. "hollow-glass" -> "Hollow Glass"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
