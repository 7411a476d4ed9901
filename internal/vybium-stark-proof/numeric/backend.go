// Package numeric provides the floating-point primitives used by the
// security estimator behind a pluggable backend.
//
// Two backends are available: Host, which delegates to the Go math package,
// and Portable, a self-contained implementation that only relies on IEEE-754
// bit casts. Both operate on float64 throughout.
package numeric

import "fmt"

// Backend is the set of floating-point operations the estimator needs.
type Backend interface {
	Name() string
	Log2(x float64) float64
	Sqrt(x float64) float64
	Pow(x, y float64) float64
	Ceil(x float64) float64
}

var (
	// Host delegates to the Go standard math package.
	Host Backend = hostBackend{}

	// Portable uses series expansions and Newton iteration only.
	Portable Backend = portableBackend{}
)

// ByName returns the backend registered under name ("host" or "portable").
func ByName(name string) (Backend, error) {
	switch name {
	case "host", "":
		return Host, nil
	case "portable":
		return Portable, nil
	default:
		return nil, fmt.Errorf("unknown numeric backend %q", name)
	}
}
