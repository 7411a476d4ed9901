package air

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

func mustOptions(t *testing.T, queries, blowup, grinding int, ext FieldExtension) ProofOptions {
	t.Helper()
	opts, err := NewProofOptions(queries, blowup, grinding, ext, 8, 127)
	if err != nil {
		t.Fatalf("NewProofOptions failed: %v", err)
	}
	return opts
}

// TestNewProofOptions tests parameter validation
func TestNewProofOptions(t *testing.T) {
	tests := []struct {
		name      string
		queries   int
		blowup    int
		grinding  int
		ext       FieldExtension
		folding   int
		remainder int
		expectErr bool
	}{
		{"valid cubic", 80, 4, 20, FieldExtensionCubic, 8, 127, false},
		{"valid minimal", 1, 2, 0, FieldExtensionNone, 2, 0, false},
		{"zero queries", 0, 4, 20, FieldExtensionCubic, 8, 127, true},
		{"too many queries", 256, 4, 20, FieldExtensionCubic, 8, 127, true},
		{"blowup not power of two", 80, 6, 20, FieldExtensionCubic, 8, 127, true},
		{"blowup too small", 80, 1, 20, FieldExtensionCubic, 8, 127, true},
		{"blowup too large", 80, 256, 20, FieldExtensionCubic, 8, 127, true},
		{"grinding too large", 80, 4, 33, FieldExtensionCubic, 8, 127, true},
		{"invalid extension", 80, 4, 20, FieldExtension(4), 8, 127, true},
		{"folding not power of two", 80, 4, 20, FieldExtensionCubic, 6, 127, true},
		{"folding too large", 80, 4, 20, FieldExtensionCubic, 32, 127, true},
		{"remainder not 2^k-1", 80, 4, 20, FieldExtensionCubic, 8, 100, true},
		{"remainder too large", 80, 4, 20, FieldExtensionCubic, 8, 511, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProofOptions(tt.queries, tt.blowup, tt.grinding, tt.ext, tt.folding, tt.remainder)
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestProofOptionsEncoding(t *testing.T) {
	opts := mustOptions(t, 85, 8, 20, FieldExtensionQuadratic)
	encoded := utils.ToBytes(opts)
	expected := []byte{85, 8, 20, 2, 8, 127}
	if string(encoded) != string(expected) {
		t.Fatalf("encoding = %v, expected %v", encoded, expected)
	}

	var decoded ProofOptions
	if err := utils.ReadFromBytes(encoded, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != opts {
		t.Errorf("decoded %v, expected %v", decoded, opts)
	}

	t.Run("invalid extension", func(t *testing.T) {
		bad := []byte{85, 8, 20, 7, 8, 127}
		var o ProofOptions
		err := utils.ReadFromBytes(bad, &o)
		var de *utils.DeserializationError
		if !errors.As(err, &de) || de.Type != utils.DeserializationErrorInvalidValue {
			t.Errorf("expected invalid value error, got %v", err)
		}
	})

	t.Run("invalid blowup", func(t *testing.T) {
		bad := []byte{85, 3, 20, 2, 8, 127}
		var o ProofOptions
		if err := utils.ReadFromBytes(bad, &o); err == nil {
			t.Error("expected error for blowup factor 3")
		}
	})

	t.Run("truncated", func(t *testing.T) {
		var o ProofOptions
		if err := utils.ReadFromBytes(encoded[:4], &o); !errors.Is(err, utils.ErrUnexpectedEOF) {
			t.Errorf("expected EOF error, got %v", err)
		}
	})
}

func TestFieldExtension(t *testing.T) {
	for _, name := range []string{"none", "quadratic", "cubic"} {
		ext, err := ParseFieldExtension(name)
		if err != nil {
			t.Fatalf("ParseFieldExtension(%q): %v", name, err)
		}
		if ext.String() != name {
			t.Errorf("round trip of %q gave %q", name, ext.String())
		}
	}
	if FieldExtensionCubic.Degree() != 3 || FieldExtensionNone.Degree() != 1 {
		t.Error("unexpected extension degrees")
	}
	if _, err := ParseFieldExtension("quartic"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestTraceLayout(t *testing.T) {
	layout, err := NewTraceLayout(10, AuxSegment{Width: 3, Rands: 2})
	if err != nil {
		t.Fatalf("NewTraceLayout failed: %v", err)
	}
	if layout.NumSegments() != 2 {
		t.Errorf("NumSegments = %d, expected 2", layout.NumSegments())
	}
	if layout.TraceWidth() != 13 || layout.AuxTraceWidth() != 3 || layout.SegmentWidth(1) != 3 {
		t.Errorf("unexpected widths: %+v", layout)
	}

	var decoded TraceLayout
	if err := utils.ReadFromBytes(utils.ToBytes(layout), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(layout) {
		t.Error("decoded layout differs from original")
	}

	invalid := []struct {
		name string
		main int
		aux  []AuxSegment
	}{
		{"no main columns", 0, nil},
		{"empty aux segment", 4, []AuxSegment{{Width: 0}}},
		{"too many aux segments", 4, []AuxSegment{{Width: 1}, {Width: 1}}},
		{"too wide", 250, []AuxSegment{{Width: 10}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTraceLayout(tt.main, tt.aux...); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("decode rejects aux count", func(t *testing.T) {
		var l TraceLayout
		if err := utils.ReadFromBytes([]byte{4, 2, 1, 0, 1, 0}, &l); err == nil {
			t.Error("expected error for two aux segments")
		}
	})
}

func TestTraceInfo(t *testing.T) {
	layout, _ := NewTraceLayout(4)
	if _, err := NewTraceInfo(layout, 4, nil); err == nil {
		t.Error("expected error for trace length below minimum")
	}
	if _, err := NewTraceInfo(layout, 24, nil); err == nil {
		t.Error("expected error for non power of two trace length")
	}
	info, err := NewTraceInfo(layout, 1<<10, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("NewTraceInfo failed: %v", err)
	}
	if info.Length() != 1024 || info.Width() != 4 || len(info.Meta()) != 3 {
		t.Errorf("unexpected trace info %+v", info)
	}
}

func TestContext(t *testing.T) {
	layout, _ := NewTraceLayout(6, AuxSegment{Width: 2, Rands: 1})
	info, _ := NewTraceInfo(layout, 1<<18, []byte("meta"))
	opts := mustOptions(t, 80, 4, 20, FieldExtensionCubic)

	ctx, err := NewGoldilocksContext(info, opts)
	if err != nil {
		t.Fatalf("NewGoldilocksContext failed: %v", err)
	}

	if ctx.NumModulusBits() != 64 {
		t.Errorf("NumModulusBits = %d, expected 64", ctx.NumModulusBits())
	}
	if ctx.LdeDomainSize() != 1<<20 {
		t.Errorf("LdeDomainSize = %d, expected %d", ctx.LdeDomainSize(), 1<<20)
	}
	if ctx.TraceInfo().Length() != 1<<18 || string(ctx.TraceInfo().Meta()) != "meta" {
		t.Error("TraceInfo did not round trip through the context")
	}

	var decoded Context
	if err := utils.ReadFromBytes(utils.ToBytes(ctx), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(ctx) {
		t.Error("decoded context differs from original")
	}

	small, err := NewContext(info, big.NewInt(97), opts)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	if small.NumModulusBits() != 7 {
		t.Errorf("NumModulusBits for 97 = %d, expected 7", small.NumModulusBits())
	}
	if small.Equal(ctx) {
		t.Error("contexts over different fields must differ")
	}

	if _, err := NewContext(info, big.NewInt(0), opts); err == nil {
		t.Error("expected error for zero modulus")
	}
}

func TestContextDecodeErrors(t *testing.T) {
	layout, _ := NewTraceLayout(2)
	info, _ := NewTraceInfo(layout, 8, nil)
	opts := mustOptions(t, 10, 2, 0, FieldExtensionNone)
	ctx, _ := NewContext(info, big.NewInt(97), opts)
	encoded := utils.ToBytes(ctx)

	// layout (2 bytes), log2 length, meta length (2 bytes), modulus length, modulus, options
	t.Run("trace length too small", func(t *testing.T) {
		bad := append([]byte(nil), encoded...)
		bad[2] = 2
		var c Context
		if err := utils.ReadFromBytes(bad, &c); err == nil {
			t.Error("expected error for trace length 4")
		}
	})

	t.Run("empty modulus", func(t *testing.T) {
		bad := append([]byte(nil), encoded[:5]...)
		bad = append(bad, 0)
		bad = append(bad, utils.ToBytes(opts)...)
		var c Context
		if err := utils.ReadFromBytes(bad, &c); err == nil {
			t.Error("expected error for empty modulus")
		}
	})

	t.Run("trace length limit", func(t *testing.T) {
		bad := append([]byte(nil), encoded...)
		bad[2] = MaxTraceLengthLog2 + 1
		var c Context
		if err := utils.ReadFromBytes(bad, &c); err == nil {
			t.Errorf("expected error for trace length 2^%d", MaxTraceLengthLog2+1)
		}

		ok := append([]byte(nil), encoded...)
		ok[2] = MaxTraceLengthLog2
		if err := utils.ReadFromBytes(ok, &c); err != nil {
			t.Fatalf("decoding trace length 2^%d failed: %v", MaxTraceLengthLog2, err)
		}
		if c.LdeDomainSize() <= 0 || c.LdeDomainSize()*(MaxBlowupFactor/2) <= 0 {
			t.Errorf("LdeDomainSize = %d overflows", c.LdeDomainSize())
		}

		if _, err := NewTraceInfo(layout, 1<<(MaxTraceLengthLog2+1), nil); err == nil {
			t.Errorf("NewTraceInfo accepted trace length 2^%d", MaxTraceLengthLog2+1)
		}
	})

	t.Run("zero modulus", func(t *testing.T) {
		bad := append([]byte(nil), encoded[:5]...)
		bad = append(bad, 2, 0, 0)
		bad = append(bad, utils.ToBytes(opts)...)
		var c Context
		if err := utils.ReadFromBytes(bad, &c); err == nil {
			t.Errorf("expected error for zero modulus, got %d bits", c.NumModulusBits())
		}
	})

	t.Run("255-byte modulus", func(t *testing.T) {
		bad := append([]byte(nil), encoded[:5]...)
		bad = append(bad, 255)
		bad = append(bad, bytes.Repeat([]byte{1}, 255)...)
		bad = append(bad, utils.ToBytes(opts)...)
		var c Context
		if err := utils.ReadFromBytes(bad, &c); err == nil {
			t.Error("expected error for 255-byte modulus")
		}
	})

	t.Run("every truncation fails", func(t *testing.T) {
		for i := 0; i < len(encoded); i++ {
			var c Context
			if err := utils.ReadFromBytes(encoded[:i], &c); err == nil {
				t.Fatalf("decoding %d of %d bytes succeeded", i, len(encoded))
			}
		}
	})
}
