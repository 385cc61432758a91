package material

import "sort"

// Palette maps single-character block codes to shared materials
type Palette struct {
	blocks map[rune]*Material
	byName map[string]*Material
	empty  map[rune]bool
}

// defaultEmptyCodes are always treated as air
var defaultEmptyCodes = []rune{' ', '\t', '_', 'X'}

// NewPalette creates an empty palette that only knows the default air codes
func NewPalette() *Palette {
	p := &Palette{
		blocks: make(map[rune]*Material),
		byName: make(map[string]*Material),
		empty:  make(map[rune]bool),
	}
	for _, code := range defaultEmptyCodes {
		p.empty[code] = true
	}
	return p
}

// Register binds a block code to a material. A later registration for the same
// code replaces the earlier one.
func (p *Palette) Register(code rune, m *Material) {
	delete(p.empty, code)
	p.blocks[code] = m
	if m.Name != "" {
		p.byName[m.Name] = m
	}
}

// MarkEmpty declares code as air
func (p *Palette) MarkEmpty(code rune) {
	delete(p.blocks, code)
	p.empty[code] = true
}

// Lookup resolves a block code. known is false for codes the palette has never
// heard of; m is nil for empty codes.
func (p *Palette) Lookup(code rune) (m *Material, known bool) {
	if p.empty[code] {
		return nil, true
	}
	m, known = p.blocks[code]
	return m, known
}

// Named returns the material registered under the given name
func (p *Palette) Named(name string) (*Material, bool) {
	m, ok := p.byName[name]
	return m, ok
}

// Codes returns the registered block codes in sorted order
func (p *Palette) Codes() []string {
	codes := make([]string, 0, len(p.blocks))
	for code := range p.blocks {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	return codes
}
