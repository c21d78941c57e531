package sprite

import "sync"

// Texture is the host texture capability the atlas needs
type Texture interface {
	Name() string
	SetName(name string)
	// SetNearestFilter disables filtering so neighboring cells never bleed
	SetNearestFilter()
	SetOffset(u, v float64)
	SetRepeat(u, v float64)
	Clone() Texture
	Dispose()
}

// Material is the host material the face atlas is bound to
type Material interface {
	Name() string
	Map() Texture
	// SetMap binds t as both color and emissive map
	SetMap(t Texture)
}

// AtlasTexture owns a clone of the atlas bound to the face material and selects one cell per frame
type AtlasTexture struct {
	mu       sync.Mutex
	rows     int
	columns  int
	texture  Texture
	material Material
	frame    Frame
}

// NewAtlasTexture clones atlas, sets the single-cell repeat and binds it to material
func NewAtlasTexture(rows, columns int, atlas Texture, material Material) *AtlasTexture {
	tex := atlas.Clone()
	tex.SetName("FaceTexture")
	tex.SetNearestFilter()
	tex.SetOffset(0, 0)
	tex.SetRepeat(1/float64(columns), 1/float64(rows))

	a := &AtlasTexture{
		rows:    rows,
		columns: columns,
		texture: tex,
	}
	a.bind(material)
	return a
}

// bind attaches the texture to m, disposing the map it replaces
func (a *AtlasTexture) bind(m Material) {
	prev := m.Map()
	m.SetMap(a.texture)
	if prev != nil && prev != a.texture {
		prev.Dispose()
	}
	a.material = m
}

// UpdateFrame moves the texture offset to f
func (a *AtlasTexture) UpdateFrame(f Frame) {
	uv := UVFor(f, a.rows, a.columns)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.texture.SetOffset(uv.OffsetU, uv.OffsetV)
	a.frame = f
}

// UpdateMaterial rebinds the texture to a replacement face material
func (a *AtlasTexture) UpdateMaterial(m Material) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bind(m)
}

// Frame returns the last frame set
func (a *AtlasTexture) Frame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame
}

// Material returns the bound material
func (a *AtlasTexture) Material() Material {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.material
}

// Texture returns the owned clone
func (a *AtlasTexture) Texture() Texture { return a.texture }

// Grid returns the atlas dimensions
func (a *AtlasTexture) Grid() (rows, columns int) { return a.rows, a.columns }

// Dispose releases the owned clone
func (a *AtlasTexture) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.texture.Dispose()
}

// MemoryTexture records texture state without a GPU
type MemoryTexture struct {
	mu       sync.Mutex
	name     string
	nearest  bool
	offsetU  float64
	offsetV  float64
	repeatU  float64
	repeatV  float64
	disposed bool
	source   *MemoryTexture
}

// NewMemoryTexture creates a named texture with unit repeat
func NewMemoryTexture(name string) *MemoryTexture {
	return &MemoryTexture{name: name, repeatU: 1, repeatV: 1}
}

func (t *MemoryTexture) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

func (t *MemoryTexture) SetName(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
}

func (t *MemoryTexture) SetNearestFilter() {
	t.mu.Lock()
	t.nearest = true
	t.mu.Unlock()
}

func (t *MemoryTexture) SetOffset(u, v float64) {
	t.mu.Lock()
	t.offsetU, t.offsetV = u, v
	t.mu.Unlock()
}

func (t *MemoryTexture) SetRepeat(u, v float64) {
	t.mu.Lock()
	t.repeatU, t.repeatV = u, v
	t.mu.Unlock()
}

// Clone copies the state into a fresh texture that remembers its source
func (t *MemoryTexture) Clone() Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &MemoryTexture{
		name:    t.name,
		nearest: t.nearest,
		offsetU: t.offsetU,
		offsetV: t.offsetV,
		repeatU: t.repeatU,
		repeatV: t.repeatV,
		source:  t,
	}
}

func (t *MemoryTexture) Dispose() {
	t.mu.Lock()
	t.disposed = true
	t.mu.Unlock()
}

// UV returns the recorded transform
func (t *MemoryTexture) UV() UV {
	t.mu.Lock()
	defer t.mu.Unlock()
	return UV{OffsetU: t.offsetU, OffsetV: t.offsetV, RepeatU: t.repeatU, RepeatV: t.repeatV}
}

// Nearest reports whether nearest filtering was set
func (t *MemoryTexture) Nearest() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nearest
}

// Disposed reports whether Dispose was called
func (t *MemoryTexture) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

// Source returns the texture this one was cloned from, nil for an original
func (t *MemoryTexture) Source() *MemoryTexture { return t.source }

// MemoryMaterial is a named material slot under a parent node
type MemoryMaterial struct {
	mu     sync.Mutex
	name   string
	parent string
	m      Texture
}

// NewMemoryMaterial creates a material with no map
func NewMemoryMaterial(name, parent string) *MemoryMaterial {
	return &MemoryMaterial{name: name, parent: parent}
}

func (m *MemoryMaterial) Name() string { return m.name }

// Parent returns the owning node name
func (m *MemoryMaterial) Parent() string { return m.parent }

func (m *MemoryMaterial) Map() Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m
}

func (m *MemoryMaterial) SetMap(t Texture) {
	m.mu.Lock()
	m.m = t
	m.mu.Unlock()
}
