package vybiumstarkproof

import (
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/fri"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// StarkProof is a STARK proof container
type StarkProof = proof.StarkProof

// Commitments holds the Merkle roots of a proof
type Commitments = proof.Commitments

// Queries holds the opened values of one committed resource
type Queries = proof.Queries

// OodFrame holds the out-of-domain evaluation frame
type OodFrame = proof.OodFrame

// Table is a row-major table of field elements
type Table = proof.Table

// FriProof is the serialized FRI low-degree proof
type FriProof = fri.FriProof

// Context holds the public parameters of a proof
type Context = air.Context

// ProofOptions holds the STARK protocol parameters
type ProofOptions = air.ProofOptions

// FieldExtension selects the extension field degree
type FieldExtension = air.FieldExtension

// TraceLayout describes the segments of an execution trace
type TraceLayout = air.TraceLayout

// TraceInfo describes the shape of an execution trace
type TraceInfo = air.TraceInfo

// AuxSegment describes an auxiliary trace segment
type AuxSegment = air.AuxSegment

// Estimator evaluates security bounds with a fixed numeric backend
type Estimator = security.Estimator

// ProvenReport is the proven bound at its optimal proximity parameter
type ProvenReport = security.ProvenReport

// Hasher is a commitment hash function
type Hasher = crypto.Hasher

// Config is the shared CLI and service configuration
type Config = utils.Config

// Field extensions
const (
	FieldExtensionNone      = air.FieldExtensionNone
	FieldExtensionQuadratic = air.FieldExtensionQuadratic
	FieldExtensionCubic     = air.FieldExtensionCubic
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}
