package models

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions lists the mesh file extensions Load understands.
var Extensions = []string{".obj", ".glb", ".gltf"}

// LoadOptions controls how Load reads a mesh file.
type LoadOptions struct {
	Lenient bool // OBJ only: skip unknown tags
}

// Load reads a mesh, choosing the loader from the file extension.
func Load(path string, opts LoadOptions) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return (&OBJLoader{Lenient: opts.Lenient}).Load(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj, .glb or .gltf)", filepath.Ext(path))
	}
}

// List returns the names of loadable mesh files in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list meshes: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(Extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
