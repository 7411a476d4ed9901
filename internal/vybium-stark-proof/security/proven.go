package security

import (
	"fmt"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
)

// numOpenings is the number of out-of-domain points the trace is opened at
// (current and next row).
const numOpenings = 2.0

// ProvenReport describes the proven bound at its optimal proximity parameter.
type ProvenReport struct {
	Level      uint32  `json:"level"`
	Unclamped  uint64  `json:"unclamped"`
	M          uint64  `json:"m"`
	MMax       uint64  `json:"m_max"`
	CommitBits float64 `json:"commit_bits"`
	QueryBits  float64 `json:"query_bits"`
	AliBits    float64 `json:"ali_bits"`
	DeepBits   float64 `json:"deep_bits"`
	Backend    string  `json:"backend"`
}

// terms holds the soundness error exponents for a single m.
type terms struct {
	commit float64
	query  float64
	ali    float64
	deep   float64
}

// Proven returns the proven security level in bits, capped at collisionResistance.
func (e *Estimator) Proven(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) (uint32, error) {
	best, _, _, err := e.search(options, baseFieldBits, traceDomainSize)
	if err != nil {
		return 0, err
	}
	return uint32(min(best, uint64(collisionResistance))), nil
}

// Breakdown evaluates the proven bound and reports the optimal m together
// with each error term at that m.
func (e *Estimator) Breakdown(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64, collisionResistance uint32) (*ProvenReport, error) {
	best, m, mMax, err := e.search(options, baseFieldBits, traceDomainSize)
	if err != nil {
		return nil, err
	}
	t := e.terms(options, baseFieldBits, traceDomainSize, m)
	return &ProvenReport{
		Level:      uint32(min(best, uint64(collisionResistance))),
		Unclamped:  best,
		M:          m,
		MMax:       mMax,
		CommitBits: t.commit,
		QueryBits:  t.query,
		AliBits:    t.ali,
		DeepBits:   t.deep,
		Backend:    e.backend.Name(),
	}, nil
}

// UpperM returns the exclusive upper end of the m search for a trace of
// length h: min(ceil(h/4 * (1 + sqrt(1 + 2/h))), MaxProximityParameter).
func (e *Estimator) UpperM(traceDomainSize uint64) uint64 {
	h := float64(traceDomainSize)
	mMax := e.backend.Ceil(0.25 * h * (1.0 + e.backend.Sqrt(1.0+2.0/h)))
	return min(bits(mMax), MaxProximityParameter)
}

// search finds the m in [MinProximityParameter, m_max) maximizing the
// per-m bound. Ties resolve to the largest such m.
func (e *Estimator) search(options air.ProofOptions, baseFieldBits uint32, traceDomainSize uint64) (best, bestM, mMax uint64, err error) {
	if traceDomainSize == 0 {
		return 0, 0, 0, ErrEmptyTraceDomain
	}
	if _, err := ldeDomainSize(options, traceDomainSize); err != nil {
		return 0, 0, 0, err
	}

	mMax = e.UpperM(traceDomainSize)
	if mMax <= MinProximityParameter {
		return 0, 0, mMax, &ConfigError{
			Reason:  ErrEmptyProximityRange.Reason,
			Message: fmt.Sprintf("no proximity parameter in [%d, %d) for trace length %d",
				MinProximityParameter, mMax, traceDomainSize),
		}
	}

	for m := uint64(MinProximityParameter); m < mMax; m++ {
		level := e.ProvenForM(options, baseFieldBits, traceDomainSize, m)
		if m == MinProximityParameter || level >= best {
			best, bestM = level, m
		}
	}
	return best, bestM, mMax, nil
}

// ProvenForM returns the proven security level for a fixed proximity
// parameter m in the list-decoding regime. It does not apply the
// collision resistance cap. An empty or overflowing LDE domain scores 0.
func (e *Estimator) ProvenForM(options air.ProofOptions, baseFieldBits uint32, traceDomainSize, m uint64) uint64 {
	if lde, err := ldeDomainSize(options, traceDomainSize); err != nil || lde == 0 {
		return 0
	}
	t := e.terms(options, baseFieldBits, traceDomainSize, m)

	friErrBits := min(bits(t.commit), bits(t.query))
	if friErrBits < 1 {
		return 0
	}
	friErrBits--

	level := min(friErrBits, bits(t.ali), bits(t.deep))
	if level < 1 {
		return 0
	}
	return level - 1
}

func (e *Estimator) terms(options air.ProofOptions, baseFieldBits uint32, traceDomainSize, m uint64) terms {
	b := e.backend

	extensionFieldBits := float64(baseFieldBits * options.FieldExtension().Degree())
	numQueries := float64(options.NumQueries())
	mf := float64(m)
	rho := 1.0 / float64(options.BlowupFactor())
	alpha := (1.0 + 0.5/mf) * b.Sqrt(rho)
	maxDeg := float64(options.BlowupFactor()) + 1.0

	// rate in the function field F(Z); alpha must exceed sqrt(rhoPlus)
	ldeDomainSize := float64(traceDomainSize * uint64(options.BlowupFactor()))
	h := float64(traceDomainSize)
	rhoPlus := (h + numOpenings) / ldeDomainSize

	mPlus := b.Ceil(1.0 / (2.0 * (alpha/b.Sqrt(rhoPlus) - 1.0)))
	alphaPlus := (1.0 + 0.5/mPlus) * b.Sqrt(rhoPlus)
	thetaPlus := 1.0 - alphaPlus

	// only the dominant term of the commit-phase error is considered
	commit := extensionFieldBits -
		b.Log2((0.5*b.Pow(mf+0.5, 7.0)/b.Pow(rho, 1.5))*b.Pow(ldeDomainSize, 2.0))
	query := float64(options.GrindingFactor()) - b.Log2(b.Pow(1.0-thetaPlus, numQueries))

	lPlus := (2.0*mPlus + 1.0) / (2.0 * b.Sqrt(rhoPlus))
	ali := -b.Log2(lPlus) + extensionFieldBits
	deep := -b.Log2(lPlus*(maxDeg*(h+numOpenings-1.0)+(h-1.0))) + extensionFieldBits

	return terms{commit: commit, query: query, ali: ali, deep: deep}
}
