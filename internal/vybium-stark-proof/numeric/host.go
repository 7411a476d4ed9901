package numeric

import "math"

type hostBackend struct{}

func (hostBackend) Name() string { return "host" }

func (hostBackend) Log2(x float64) float64 { return math.Log2(x) }

func (hostBackend) Sqrt(x float64) float64 { return math.Sqrt(x) }

func (hostBackend) Pow(x, y float64) float64 { return math.Pow(x, y) }

func (hostBackend) Ceil(x float64) float64 { return math.Ceil(x) }
