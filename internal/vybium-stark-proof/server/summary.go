package server

import (
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
)

// OptionsSummary is the JSON view of air.ProofOptions
type OptionsSummary struct {
	NumQueries            int    `json:"num_queries"`
	BlowupFactor          int    `json:"blowup_factor"`
	GrindingFactor        uint32 `json:"grinding_factor"`
	FieldExtension        string `json:"field_extension"`
	FriFoldingFactor      int    `json:"fri_folding_factor"`
	FriRemainderMaxDegree int    `json:"fri_remainder_max_degree"`
}

// Summary describes a decoded proof and its security level
type Summary struct {
	SizeBytes           int            `json:"size_bytes"`
	TraceLength         int            `json:"trace_length"`
	MainTraceWidth      int            `json:"main_trace_width"`
	AuxTraceWidth       int            `json:"aux_trace_width"`
	NumSegments         int            `json:"num_segments"`
	LdeDomainSize       int            `json:"lde_domain_size"`
	FieldModulusBits    uint32         `json:"field_modulus_bits"`
	NumUniqueQueries    int            `json:"num_unique_queries"`
	NumFriLayers        int            `json:"num_fri_layers"`
	PowNonce            uint64         `json:"pow_nonce"`
	Options             OptionsSummary `json:"options"`
	CollisionResistance uint32         `json:"collision_resistance"`
	ConjecturedSecurity uint32         `json:"conjectured_security"`
	ProvenSecurity      uint32         `json:"proven_security"`
}

// Summarize reports on a decoded proof whose encoding was size bytes long,
// estimating its security with est.
func Summarize(p *proof.StarkProof, size int, est *security.Estimator, collisionResistance uint32) (*Summary, error) {
	conjectured, err := p.SecurityLevelWith(est, true, collisionResistance)
	if err != nil {
		return nil, err
	}
	proven, err := p.SecurityLevelWith(est, false, collisionResistance)
	if err != nil {
		return nil, err
	}

	options := p.Options()
	layout := p.TraceLayout()
	return &Summary{
		SizeBytes:        size,
		TraceLength:      p.TraceLength(),
		MainTraceWidth:   layout.MainTraceWidth(),
		AuxTraceWidth:    layout.AuxTraceWidth(),
		NumSegments:      layout.NumSegments(),
		LdeDomainSize:    p.LdeDomainSize(),
		FieldModulusBits: p.Context().NumModulusBits(),
		NumUniqueQueries: p.NumUniqueQueries(),
		NumFriLayers:     p.FriProof().NumLayers(),
		PowNonce:         p.PowNonce(),
		Options: OptionsSummary{
			NumQueries:            options.NumQueries(),
			BlowupFactor:          options.BlowupFactor(),
			GrindingFactor:        options.GrindingFactor(),
			FieldExtension:        options.FieldExtension().String(),
			FriFoldingFactor:      options.FriFoldingFactor(),
			FriRemainderMaxDegree: options.FriRemainderMaxDegree(),
		},
		CollisionResistance: collisionResistance,
		ConjecturedSecurity: conjectured,
		ProvenSecurity:      proven,
	}, nil
}
