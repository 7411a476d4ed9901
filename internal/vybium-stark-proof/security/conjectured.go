package security

import (
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Conjectured returns the conjectured security level in bits.
//
// The result is min(min(field, query) - 1, collisionResistance), where the
// field term is the extension field size less log2 of the LDE domain size
// and the query term is log2(blowup) bits per query. Grinding only counts
// once the query term reaches GrindingContributionFloor. Configurations
// that would go negative, or whose LDE domain is empty or overflows, report 0.
func (e *Estimator) Conjectured(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) uint32 {
	lde, err := ldeDomainSize(options, traceDomainSize)
	if err != nil || lde == 0 {
		return 0
	}

	fieldSize := int64(baseFieldBits) * int64(options.FieldExtension().Degree())
	fieldSecurity := fieldSize - int64(utils.Ilog2(lde))

	securityPerQuery := int64(utils.Ilog2(uint64(options.BlowupFactor())))
	querySecurity := securityPerQuery * int64(options.NumQueries())
	if querySecurity >= GrindingContributionFloor {
		querySecurity += int64(options.GrindingFactor())
	}

	level := min(fieldSecurity, querySecurity) - 1
	level = min(level, int64(collisionResistance))
	if level < 0 {
		return 0
	}
	return uint32(level)
}
