package numeric

import "math"

const (
	ln2     = 0.6931471805599453
	log2E   = 1.4426950408889634
	sqrt2   = 1.4142135623730951
	twoTo52 = 4503599627370496.0

	// smallest positive normal float64
	minNormal = 2.2250738585072014e-308

	expMask  = 0x7ff
	expShift = 52
	expBias  = 1023
	fracMask = (uint64(1) << expShift) - 1

	// integer exponents up to this magnitude are evaluated by repeated squaring
	maxIntegerExponent = 1 << 20

	seriesEpsilon = 1e-20
	maxNewtonIter = 100
)

type portableBackend struct{}

func (portableBackend) Name() string { return "portable" }

// Log2 splits x into m·2^e with m in [sqrt(1/2), sqrt(2)) and evaluates
// ln(m) = 2·atanh((m-1)/(m+1)) as a power series.
func (portableBackend) Log2(x float64) float64 {
	switch {
	case x != x || x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	case x > math.MaxFloat64:
		return x
	}

	adjust := 0
	if x < minNormal {
		x *= 1 << 62
		x *= 1 << 2
		adjust = -64
	}

	b := math.Float64bits(x)
	e := int((b>>expShift)&expMask) - expBias + adjust
	m := math.Float64frombits((b & fracMask) | (expBias << expShift))
	if m == 1 {
		return float64(e)
	}
	if m > sqrt2 {
		m /= 2
		e++
	}

	s := (m - 1) / (m + 1)
	s2 := s * s
	term := s
	sum := 0.0
	for k := 1.0; ; k += 2 {
		d := term / k
		sum += d
		if abs(d) < seriesEpsilon {
			break
		}
		term *= s2
	}
	return float64(e) + 2*sum*log2E
}

// Sqrt runs Newton's iteration from a power-of-two initial guess.
func (portableBackend) Sqrt(x float64) float64 {
	switch {
	case x != x || x < 0:
		return math.NaN()
	case x == 0 || x > math.MaxFloat64:
		return x
	}

	e := int((math.Float64bits(x)>>expShift)&expMask) - expBias
	g := scale(1, floorDiv2(e))
	for i := 0; i < maxNewtonIter; i++ {
		next := 0.5 * (g + x/g)
		if next == g {
			break
		}
		g = next
	}
	return g
}

// Pow uses repeated squaring for integral exponents and exp2(y·log2(x)) otherwise.
func (p portableBackend) Pow(x, y float64) float64 {
	if y == 0 {
		return 1
	}
	if x != x || y != y {
		return math.NaN()
	}

	if y == truncate(y) && abs(y) <= maxIntegerExponent {
		n := int64(abs(y))
		result := 1.0
		base := x
		for n > 0 {
			if n&1 == 1 {
				result *= base
			}
			base *= base
			n >>= 1
		}
		if y < 0 {
			return 1 / result
		}
		return result
	}

	switch {
	case x < 0:
		return math.NaN()
	case x == 0:
		if y > 0 {
			return 0
		}
		return math.Inf(1)
	}
	return exp2(y * p.Log2(x))
}

func (portableBackend) Ceil(x float64) float64 {
	if x != x || abs(x) >= twoTo52 {
		return x
	}
	t := truncate(x)
	if t < x {
		t++
	}
	if t == 0 && x < 0 {
		// preserve the sign of values in (-1, 0)
		return math.Copysign(0, -1)
	}
	return t
}

// exp2 evaluates 2^t as 2^n · e^(f·ln2) with n = floor(t).
func exp2(t float64) float64 {
	switch {
	case t != t:
		return t
	case t > 1024:
		return math.Inf(1)
	case t < -1075:
		return 0
	}

	n := truncate(t)
	if n > t {
		n--
	}
	y := (t - n) * ln2
	term := 1.0
	sum := 1.0
	for k := 1.0; ; k++ {
		term *= y / k
		sum += term
		if term < seriesEpsilon {
			break
		}
	}
	return scale(sum, int(n))
}

// scale returns x·2^n, stepping through the normal range to avoid overflow.
func scale(x float64, n int) float64 {
	for n > expBias {
		x *= math.Float64frombits(uint64(2*expBias) << expShift)
		n -= expBias
	}
	for n < 1-expBias {
		x *= math.Float64frombits(1 << expShift)
		n += expBias - 1
	}
	return x * math.Float64frombits(uint64(n+expBias)<<expShift)
}

func truncate(x float64) float64 {
	if abs(x) >= twoTo52 {
		return x
	}
	return float64(int64(x))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func floorDiv2(e int) int {
	if e < 0 {
		return -((-e + 1) / 2)
	}
	return e / 2
}
