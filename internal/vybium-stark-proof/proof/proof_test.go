package proof

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/fri"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/numeric"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

func newContext(t *testing.T, traceLength, queries, blowup int, ext air.FieldExtension, aux ...air.AuxSegment) *air.Context {
	t.Helper()
	layout, err := air.NewTraceLayout(3, aux...)
	if err != nil {
		t.Fatalf("NewTraceLayout failed: %v", err)
	}
	info, err := air.NewTraceInfo(layout, traceLength, []byte{0xAB})
	if err != nil {
		t.Fatalf("NewTraceInfo failed: %v", err)
	}
	opts, err := air.NewProofOptions(queries, blowup, 20, ext, 4, 3)
	if err != nil {
		t.Fatalf("NewProofOptions failed: %v", err)
	}
	ctx, err := air.NewGoldilocksContext(info, opts)
	if err != nil {
		t.Fatalf("NewGoldilocksContext failed: %v", err)
	}
	return ctx
}

func syntheticProof(t *testing.T, h crypto.Hasher) *StarkProof {
	t.Helper()
	ctx := newContext(t, 16, 20, 4, air.FieldExtensionQuadratic, air.AuxSegment{Width: 2, Rands: 1})
	p, err := NewSyntheticProof(ctx, h, []byte("fixture"))
	if err != nil {
		t.Fatalf("NewSyntheticProof failed: %v", err)
	}
	return p
}

func TestDummyStarkProof(t *testing.T) {
	dummy := NewDummyStarkProof()
	if dummy.NumUniqueQueries() != 1 || len(dummy.TraceQueries()) != dummy.TraceLayout().NumSegments() {
		t.Fatal("dummy proof violates container invariants")
	}

	decoded, err := FromBytes(dummy.ToBytes())
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if !decoded.Equal(dummy) {
		t.Error("decoded dummy proof differs from original")
	}

	for _, conjectured := range []bool{true, false} {
		level, err := dummy.SecurityLevel(conjectured, 128)
		if err != nil {
			t.Fatalf("SecurityLevel(%v) failed: %v", conjectured, err)
		}
		if level != 0 {
			t.Errorf("SecurityLevel(%v) = %d, expected 0", conjectured, level)
		}
	}
}

func TestStarkProofRoundTrip(t *testing.T) {
	for _, h := range []crypto.Hasher{crypto.Sha3_256{}, crypto.Blake2b_256{}, crypto.Tip5{}} {
		t.Run(h.Name(), func(t *testing.T) {
			p := syntheticProof(t, h)
			encoded := p.ToBytes()

			decoded, err := FromBytes(encoded)
			if err != nil {
				t.Fatalf("FromBytes failed: %v", err)
			}
			if !decoded.Equal(p) {
				t.Fatal("decoded proof differs from original")
			}
			if string(decoded.ToBytes()) != string(encoded) {
				t.Error("re-encoding changed the bytes")
			}
			if decoded.TraceInfo().Length() != 16 || string(decoded.TraceInfo().Meta()) != "\xAB" {
				t.Error("trace info did not survive the round trip")
			}
			if decoded.LdeDomainSize() != 64 {
				t.Errorf("LdeDomainSize = %d, expected 64", decoded.LdeDomainSize())
			}
		})
	}
}

func TestSyntheticProofOpensCommitments(t *testing.T) {
	h := crypto.Sha3_256{}
	p := syntheticProof(t, h)
	layout := p.TraceLayout()
	n := p.NumUniqueQueries()

	traceRoots, constraintRoot, friRoots, err := p.Commitments().Parse(h.DigestSize(), layout.NumSegments(), p.FriProof().NumLayers())
	if err != nil {
		t.Fatalf("Commitments.Parse failed: %v", err)
	}
	if len(friRoots) != 1 {
		t.Errorf("expected one FRI layer, got %d", len(friRoots))
	}

	// positions are not part of the proof; recover them from the first opening
	var positions []int
	for i, q := range p.TraceQueries() {
		batch, table, err := q.Parse(h, n, layout.SegmentWidth(i))
		if err != nil {
			t.Fatalf("trace queries %d: Parse failed: %v", i, err)
		}
		if table.NumRows() != n || table.NumColumns() != layout.SegmentWidth(i) {
			t.Errorf("trace queries %d: table is %dx%d", i, table.NumRows(), table.NumColumns())
		}
		if positions == nil {
			positions = recoverPositions(t, h, traceRoots[i], batch)
		}
		if err := batch.Verify(h, traceRoots[i], positions); err != nil {
			t.Errorf("trace queries %d did not verify: %v", i, err)
		}
	}

	batch, _, err := p.ConstraintQueries().Parse(h, n, 2)
	if err != nil {
		t.Fatalf("constraint queries: Parse failed: %v", err)
	}
	if err := batch.Verify(h, constraintRoot, positions); err != nil {
		t.Errorf("constraint queries did not verify: %v", err)
	}

	main, aux, evaluations, err := p.OodFrame().Parse(3, 2, 2)
	if err != nil {
		t.Fatalf("OodFrame.Parse failed: %v", err)
	}
	if len(main.Current) != 3 || len(aux.Next) != 2 || len(evaluations) != 2 {
		t.Error("unexpected out-of-domain frame shape")
	}
}

// recoverPositions finds, for each opened leaf, the index whose path
// reproduces root.
func recoverPositions(t *testing.T, h crypto.Hasher, root crypto.Digest, batch *crypto.BatchMerkleProof) []int {
	t.Helper()
	positions := make([]int, len(batch.Leaves))
	for i := range batch.Leaves {
		positions[i] = -1
		for idx := 0; idx < 1<<batch.Depth; idx++ {
			if crypto.VerifyPath(h, root, batch.Leaves[i], batch.Paths[i], idx) {
				positions[i] = idx
				break
			}
		}
		if positions[i] < 0 {
			t.Fatalf("leaf %d does not authenticate at any index", i)
		}
	}
	return positions
}

func TestStarkProofDecodeErrors(t *testing.T) {
	t.Run("every truncation of the dummy fails", func(t *testing.T) {
		encoded := NewDummyStarkProof().ToBytes()
		for i := 0; i < len(encoded); i++ {
			_, err := FromBytes(encoded[:i])
			var de *utils.DeserializationError
			if !errors.As(err, &de) {
				t.Fatalf("decoding %d of %d bytes: expected DeserializationError, got %v", i, len(encoded), err)
			}
		}
	})

	t.Run("truncations of a synthetic proof fail", func(t *testing.T) {
		encoded := syntheticProof(t, crypto.Sha3_256{}).ToBytes()
		for i := 0; i < len(encoded); i += 7 {
			if _, err := FromBytes(encoded[:i]); err == nil {
				t.Fatalf("decoding %d of %d bytes succeeded", i, len(encoded))
			}
		}
		if _, err := FromBytes(encoded[:len(encoded)-1]); !errors.Is(err, utils.ErrUnexpectedEOF) {
			t.Errorf("expected EOF error, got %v", err)
		}
	})

	t.Run("trailing bytes", func(t *testing.T) {
		encoded := append(NewDummyStarkProof().ToBytes(), 0)
		_, err := FromBytes(encoded)
		var de *utils.DeserializationError
		if !errors.As(err, &de) || de.Type != utils.DeserializationErrorUnconsumedBytes {
			t.Errorf("expected unconsumed bytes error, got %v", err)
		}
	})

	t.Run("unique queries out of range", func(t *testing.T) {
		dummy := NewDummyStarkProof()
		offset := len(utils.ToBytes(dummy.Context()))
		for _, bad := range []byte{0, 2} {
			encoded := dummy.ToBytes()
			encoded[offset] = bad
			if _, err := FromBytes(encoded); err == nil {
				t.Errorf("expected error for %d unique queries", bad)
			}
		}
	})
}

func TestNewStarkProofInvariants(t *testing.T) {
	dummy := NewDummyStarkProof()
	q := dummy.ConstraintQueries()
	ctx := newContext(t, 1<<10, 10, 8, air.FieldExtensionCubic, air.AuxSegment{Width: 1})

	tests := []struct {
		name      string
		ctx       *air.Context
		unique    int
		trace     []Queries
		friProof  *fri.FriProof
		expectErr bool
	}{
		{"valid", ctx, 10, []Queries{q, q}, fri.NewDummyFriProof(), false},
		{"fewer unique queries", ctx, 7, []Queries{q, q}, fri.NewDummyFriProof(), false},
		{"zero unique queries", ctx, 0, []Queries{q, q}, fri.NewDummyFriProof(), true},
		{"too many unique queries", ctx, 11, []Queries{q, q}, fri.NewDummyFriProof(), true},
		{"missing segment queries", ctx, 10, []Queries{q}, fri.NewDummyFriProof(), true},
		{"extra segment queries", ctx, 10, []Queries{q, q, q}, fri.NewDummyFriProof(), true},
		{"nil context", nil, 10, []Queries{q, q}, fri.NewDummyFriProof(), true},
		{"nil FRI proof", ctx, 10, []Queries{q, q}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewStarkProof(tt.ctx, tt.unique, Commitments{}, tt.trace, q, OodFrame{}, tt.friProof, 42)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidProof) {
					t.Errorf("expected ErrInvalidProof, got %v", err)
				}
				if p != nil {
					t.Error("a failed construction must not return a proof")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			decoded, err := FromBytes(p.ToBytes())
			if err != nil || !decoded.Equal(p) {
				t.Errorf("round trip failed: %v", err)
			}
		})
	}
}

func TestStarkProofSecurityLevel(t *testing.T) {
	q := NewDummyStarkProof().ConstraintQueries()
	tests := []struct {
		name        string
		ext         air.FieldExtension
		blowup      int
		queries     int
		conjectured uint32
		proven      uint32
	}{
		{"cubic blowup 4", air.FieldExtensionCubic, 4, 80, 128, 97},
		{"cubic blowup 8", air.FieldExtensionCubic, 8, 85, 128, 128},
		{"quadratic blowup 8", air.FieldExtensionQuadratic, 8, 85, 106, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, 1<<18, tt.queries, tt.blowup, tt.ext)
			p, err := NewStarkProof(ctx, tt.queries, Commitments{}, []Queries{q}, q, OodFrame{}, fri.NewDummyFriProof(), 0)
			if err != nil {
				t.Fatalf("NewStarkProof failed: %v", err)
			}

			conjectured, err := p.SecurityLevel(true, 128)
			if err != nil || conjectured != tt.conjectured {
				t.Errorf("conjectured = %d (%v), expected %d", conjectured, err, tt.conjectured)
			}
			proven, err := p.SecurityLevel(false, 128)
			if err != nil || proven != tt.proven {
				t.Errorf("proven = %d (%v), expected %d", proven, err, tt.proven)
			}
			portable, err := p.SecurityLevelWith(security.NewEstimator(numeric.Portable), false, 128)
			if err != nil || portable != tt.proven {
				t.Errorf("portable proven = %d (%v), expected %d", portable, err, tt.proven)
			}
		})
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := syntheticProof(t, crypto.Sha3_256{})
	queries := p.TraceQueries()
	queries[0] = Queries{}
	if p.TraceQueries()[0].Equal(queries[0]) {
		t.Error("modifying TraceQueries result changed the proof")
	}

	values := p.ConstraintQueries().Values()
	values[0] ^= 0xFF
	if p.ConstraintQueries().Values()[0] == values[0] {
		t.Error("modifying Values result changed the proof")
	}
}

func TestTable(t *testing.T) {
	rows := [][]field.Element{
		{field.New(1), field.New(2)},
		{field.New(3), field.New(4)},
		{field.New(5), field.New(6)},
	}
	table, err := NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	if table.NumRows() != 3 || table.NumColumns() != 2 {
		t.Errorf("table is %dx%d, expected 3x2", table.NumRows(), table.NumColumns())
	}

	parsed, err := ParseTable(table.Bytes(), 3, 2)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if parsed.Row(2)[1].Value() != 6 || len(parsed.Rows()) != 3 {
		t.Error("parsed table has unexpected contents")
	}

	if _, err := NewTable([][]field.Element{{field.New(1)}, {}}); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := ParseTable(table.Bytes(), 2, 2); err == nil {
		t.Error("expected error for byte count mismatch")
	}

	nonCanonical := utils.NewByteWriter(8)
	nonCanonical.WriteU64(field.P)
	if _, err := ParseTable(nonCanonical.Bytes(), 1, 1); err == nil {
		t.Error("expected error for non-canonical element")
	}
}

func TestCommitmentsParse(t *testing.T) {
	h := crypto.Blake2b_256{}
	a, b, c, d := h.Hash([]byte("a")), h.Hash([]byte("b")), h.Hash([]byte("c")), h.Hash([]byte("d"))

	commitments, err := NewCommitments([]crypto.Digest{a, b}, c, []crypto.Digest{d})
	if err != nil {
		t.Fatalf("NewCommitments failed: %v", err)
	}
	trace, constraint, friRoots, err := commitments.Parse(h.DigestSize(), 2, 1)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !trace[0].Equal(a) || !trace[1].Equal(b) || !constraint.Equal(c) || !friRoots[0].Equal(d) {
		t.Error("roots came back in the wrong order")
	}

	if _, _, _, err := commitments.Parse(h.DigestSize(), 1, 1); err == nil {
		t.Error("expected error for wrong segment count")
	}

	var decoded Commitments
	if err := utils.ReadFromBytes(utils.ToBytes(commitments), &decoded); err != nil || !decoded.Equal(commitments) {
		t.Errorf("round trip failed: %v", err)
	}
}

func TestQueriesAndOodFrameValidation(t *testing.T) {
	proof := &crypto.BatchMerkleProof{Paths: [][]crypto.Digest{nil, nil}}
	if _, err := NewQueries(proof, nil); err == nil {
		t.Error("expected error for empty values")
	}
	if _, err := NewQueries(proof, [][]field.Element{{field.One}}); err == nil {
		t.Error("expected error for path count mismatch")
	}
	if _, err := NewQueries(nil, [][]field.Element{{field.One}}); err == nil {
		t.Error("expected error for missing proof")
	}

	if _, err := NewOodFrame([][]field.Element{{field.One}}, []field.Element{field.One}); err == nil {
		t.Error("expected error for a single trace state")
	}
	if _, err := NewOodFrame([][]field.Element{{field.One}, {field.One, field.Zero}}, []field.Element{field.One}); err == nil {
		t.Error("expected error for ragged trace states")
	}

	frame, err := NewOodFrame([][]field.Element{{field.New(1), field.New(2)}, {field.New(3), field.New(4)}}, []field.Element{field.New(9)})
	if err != nil {
		t.Fatalf("NewOodFrame failed: %v", err)
	}
	main, aux, evals, err := frame.Parse(2, 0, 1)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if aux != nil || main.Next[1].Value() != 4 || evals[0].Value() != 9 {
		t.Error("unexpected parsed frame")
	}
	if _, _, _, err := frame.Parse(1, 0, 1); err == nil {
		t.Error("expected error for wrong trace width")
	}
}

func TestSyntheticProofDomainLimit(t *testing.T) {
	ctx := newContext(t, 1<<18, 10, 4, air.FieldExtensionNone)
	if _, err := NewSyntheticProof(ctx, crypto.Sha3_256{}, nil); err == nil {
		t.Error("expected error for an oversized LDE domain")
	}
}
