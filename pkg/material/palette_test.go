package material

import (
	"image/color"
	"testing"
)

func TestPaletteLookup(t *testing.T) {
	p := NewPalette()
	stone := NewSolid("stone", color.RGBA{128, 128, 128, 255})
	p.Register('S', stone)

	tests := []struct {
		name      string
		code      rune
		wantMat   *Material
		wantKnown bool
	}{
		{"registered block", 'S', stone, true},
		{"underscore is air", '_', nil, true},
		{"X is air", 'X', nil, true},
		{"space is air", ' ', nil, true},
		{"unknown code", 'Q', nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, known := p.Lookup(tt.code)
			if m != tt.wantMat || known != tt.wantKnown {
				t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tt.code, m, known, tt.wantMat, tt.wantKnown)
			}
		})
	}

	if got, ok := p.Named("stone"); !ok || got != stone {
		t.Errorf("Named(stone) = %v, %v", got, ok)
	}
}

func TestPaletteRegisterOverridesEmpty(t *testing.T) {
	p := NewPalette()
	glass := NewSolid("glass", color.RGBA{200, 230, 255, 255})
	p.Register('X', glass)

	if m, known := p.Lookup('X'); !known || m != glass {
		t.Errorf("Expected X to resolve to glass after Register, got %v (%v)", m, known)
	}

	p.MarkEmpty('X')
	if m, known := p.Lookup('X'); !known || m != nil {
		t.Errorf("Expected X to be air after MarkEmpty, got %v (%v)", m, known)
	}
	if len(p.Codes()) != 0 {
		t.Errorf("Expected no block codes, got %v", p.Codes())
	}
}
