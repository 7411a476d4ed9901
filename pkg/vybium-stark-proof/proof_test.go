package vybiumstarkproof

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

func TestFromBytes(t *testing.T) {
	dummy := NewDummyStarkProof()
	p, err := FromBytes(dummy.ToBytes())
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if !p.Equal(dummy) {
		t.Error("decoded proof differs from original")
	}

	_, err = FromBytes([]byte{1})
	if !errors.Is(err, ErrDecodingFailed) {
		t.Errorf("expected decoding error, got %v", err)
	}
	if !errors.Is(err, utils.ErrUnexpectedEOF) {
		t.Errorf("expected the cause to be an EOF error, got %v", err)
	}
}

func TestSyntheticProofSecurity(t *testing.T) {
	options, err := NewProofOptions(24, 4, 16, FieldExtensionCubic, 4, 7)
	if err != nil {
		t.Fatalf("NewProofOptions failed: %v", err)
	}
	ctx, err := NewGoldilocksContext(4, []AuxSegment{{Width: 2, Rands: 2}}, 64, []byte("synthetic"), options)
	if err != nil {
		t.Fatalf("NewGoldilocksContext failed: %v", err)
	}

	for _, hashFunction := range []string{"sha3", "blake2b", "tip5"} {
		t.Run(hashFunction, func(t *testing.T) {
			p, err := NewSyntheticProof(ctx, hashFunction, []byte("seed"))
			if err != nil {
				t.Fatalf("NewSyntheticProof failed: %v", err)
			}
			decoded, err := FromBytes(p.ToBytes())
			if err != nil || !decoded.Equal(p) {
				t.Fatalf("round trip failed: %v", err)
			}

			conjectured, err := SecurityLevel(p, true, hashFunction)
			if err != nil {
				t.Fatalf("SecurityLevel failed: %v", err)
			}
			expected := ConjecturedSecurity(options, 64, 64, 128)
			if conjectured != expected {
				t.Errorf("conjectured = %d, expected %d", conjectured, expected)
			}
			if _, err := SecurityLevel(p, false, hashFunction); err != nil {
				t.Errorf("proven SecurityLevel failed: %v", err)
			}
		})
	}

	if _, err := NewSyntheticProof(ctx, "md5", nil); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestProvenSecurity(t *testing.T) {
	options, _ := NewProofOptions(80, 4, 20, FieldExtensionCubic, 8, 127)
	level, err := ProvenSecurity(options, 64, 1<<18, 128)
	if err != nil || level != 97 {
		t.Errorf("ProvenSecurity = %d (%v), expected 97", level, err)
	}

	_, err = ProvenSecurity(options, 64, 4, 128)
	if !errors.Is(err, ErrInputInvalid) {
		t.Errorf("expected invalid input error, got %v", err)
	}
	if !errors.Is(err, security.ErrEmptyProximityRange) {
		t.Errorf("expected empty proximity range cause, got %v", err)
	}
}

func TestConstructorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  func() error
		code *ProofError
	}{
		{"invalid options", func() error {
			_, err := NewProofOptions(0, 4, 20, FieldExtensionCubic, 8, 127)
			return err
		}, ErrInputInvalid},
		{"invalid layout", func() error {
			options, _ := NewProofOptions(10, 4, 20, FieldExtensionCubic, 8, 127)
			_, err := NewGoldilocksContext(0, nil, 64, nil, options)
			return err
		}, ErrInputInvalid},
		{"invalid trace length", func() error {
			options, _ := NewProofOptions(10, 4, 20, FieldExtensionCubic, 8, 127)
			_, err := NewGoldilocksContext(2, nil, 60, nil, options)
			return err
		}, ErrInputInvalid},
		{"unknown backend", func() error {
			_, err := NewEstimator("gpu")
			return err
		}, ErrConfigInvalid},
		{"unknown hasher", func() error {
			_, err := NewHasher("md5")
			return err
		}, ErrConfigInvalid},
		{"invalid proof", func() error {
			dummy := NewDummyStarkProof()
			_, err := NewStarkProof(dummy.Context(), 0, dummy.Commitments(), dummy.TraceQueries(),
				dummy.ConstraintQueries(), dummy.OodFrame(), dummy.FriProof(), 0)
			return err
		}, ErrProofInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err()
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %v, got %v", tt.code.Code, err)
			}
			var pe *ProofError
			if !errors.As(err, &pe) || pe.Message == "" {
				t.Errorf("expected a *ProofError with a message, got %v", err)
			}
		})
	}
}

func TestEstimatorBackends(t *testing.T) {
	options, _ := NewProofOptions(53, 8, 20, FieldExtensionCubic, 8, 127)
	for _, backend := range []string{"host", "portable"} {
		est, err := NewEstimator(backend)
		if err != nil {
			t.Fatalf("NewEstimator(%q) failed: %v", backend, err)
		}
		level, err := est.Proven(options, 64, 1<<18, 128)
		if err != nil || level != 97 {
			t.Errorf("%s: Proven = %d (%v), expected 97", backend, level, err)
		}
	}
}

func TestErrorFormatting(t *testing.T) {
	err := newError(ErrDecoding, "bad bytes", errors.New("eof"))
	if err.Error() != "vybium-stark-proof error [decoding]: bad bytes (caused by: eof)" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if newError(ErrInvalidConfig, "x", nil).Error() != "vybium-stark-proof error [invalid config]: x" {
		t.Error("unexpected message without cause")
	}
	if errors.Is(err, ErrProofInvalid) {
		t.Error("errors with different codes must not match")
	}
}
