package expression

import (
	"context"
	"fmt"
	"sync"

	"github.com/lixenwraith/moodrig/sprite"
)

// MemoryLoader resolves atlas paths to in-memory textures
// Paths listed in Missing fail to load
type MemoryLoader struct {
	Missing map[string]bool
}

// LoadTexture returns a fresh memory texture named after path
func (l *MemoryLoader) LoadTexture(ctx context.Context, path string) (sprite.Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Missing[path] {
		return nil, fmt.Errorf("texture %q not found", path)
	}
	return sprite.NewMemoryTexture(path), nil
}

// MemoryScene is a flat list of materials keyed by parent node
// Materials can be swapped at runtime to model a body-part change
type MemoryScene struct {
	mu        sync.RWMutex
	materials []*sprite.MemoryMaterial
}

// NewMemoryScene creates a scene holding materials
func NewMemoryScene(materials ...*sprite.MemoryMaterial) *MemoryScene {
	return &MemoryScene{materials: materials}
}

// Replace swaps every material with the given name and parent for m
func (s *MemoryScene) Replace(m *sprite.MemoryMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, old := range s.materials {
		if old.Name() == m.Name() && old.Parent() == m.Parent() {
			s.materials[i] = m
			return
		}
	}
	s.materials = append(s.materials, m)
}

// FindMaterial returns the last material matching name under parent
func (s *MemoryScene) FindMaterial(name, parent string) (sprite.Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found sprite.Material
	for _, m := range s.materials {
		if m.Parent() == parent && m.Name() == name {
			found = m
		}
	}
	return found, found != nil
}
