// Package report sweeps proof parameters through the security estimator and
// renders the results as an HTML chart.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
)

// SweepConfig describes a query-count sweep. Every blowup factor produces
// one conjectured and one proven series.
type SweepConfig struct {
	BaseFieldBits       uint32
	TraceLength         uint64
	FieldExtension      air.FieldExtension
	GrindingFactor      int
	BlowupFactors       []int
	MinQueries          int
	MaxQueries          int
	QueryStep           int
	CollisionResistance uint32
}

// DefaultSweepConfig sweeps 10..120 queries over a 2^18 Goldilocks trace
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		BaseFieldBits:       64,
		TraceLength:         1 << 18,
		FieldExtension:      air.FieldExtensionCubic,
		GrindingFactor:      20,
		BlowupFactors:       []int{4, 8, 16},
		MinQueries:          10,
		MaxQueries:          120,
		QueryStep:           10,
		CollisionResistance: 128,
	}
}

// Point is the security of one configuration
type Point struct {
	BlowupFactor int    `json:"blowup_factor"`
	NumQueries   int    `json:"num_queries"`
	Conjectured  uint32 `json:"conjectured"`
	Proven       uint32 `json:"proven"`
}

// Sweep is the result of running a SweepConfig
type Sweep struct {
	Config SweepConfig
	Points []Point
}

// Queries returns the swept query counts in ascending order
func (c SweepConfig) Queries() []int {
	var out []int
	for q := c.MinQueries; q <= c.MaxQueries; q += c.QueryStep {
		out = append(out, q)
	}
	return out
}

func (c SweepConfig) validate() error {
	if len(c.BlowupFactors) == 0 {
		return fmt.Errorf("at least one blowup factor is required")
	}
	if c.QueryStep <= 0 {
		return fmt.Errorf("query step must be positive, but was %d", c.QueryStep)
	}
	if c.MinQueries <= 0 || c.MaxQueries < c.MinQueries || c.MaxQueries > air.MaxNumQueries {
		return fmt.Errorf("query range [%d, %d] is invalid", c.MinQueries, c.MaxQueries)
	}
	return security.ValidateTraceLength(c.TraceLength)
}

// Run evaluates every configuration of the sweep with est
func Run(est *security.Estimator, cfg SweepConfig) (*Sweep, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sweep := &Sweep{Config: cfg}
	for _, blowup := range cfg.BlowupFactors {
		for _, q := range cfg.Queries() {
			options, err := air.NewProofOptions(q, blowup, cfg.GrindingFactor, cfg.FieldExtension, 8, 127)
			if err != nil {
				return nil, fmt.Errorf("blowup %d, %d queries: %w", blowup, q, err)
			}
			proven, err := est.Proven(options, cfg.BaseFieldBits, cfg.TraceLength, cfg.CollisionResistance)
			if err != nil {
				return nil, fmt.Errorf("blowup %d, %d queries: %w", blowup, q, err)
			}
			sweep.Points = append(sweep.Points, Point{
				BlowupFactor: blowup,
				NumQueries:   q,
				Conjectured:  est.Conjectured(options, cfg.BaseFieldBits, cfg.TraceLength, cfg.CollisionResistance),
				Proven:       proven,
			})
		}
	}
	return sweep, nil
}

// Series returns the points for one blowup factor
func (s *Sweep) Series(blowup int) []Point {
	var out []Point
	for _, p := range s.Points {
		if p.BlowupFactor == blowup {
			out = append(out, p)
		}
	}
	return out
}

// Chart builds a line chart of security level against query count
func (s *Sweep) Chart() *charts.Line {
	title := fmt.Sprintf("Security vs. number of queries (%s extension, trace 2^%d)",
		s.Config.FieldExtension, log2(s.Config.TraceLength))

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("grinding %d bits, collision resistance %d bits", s.Config.GrindingFactor, s.Config.CollisionResistance),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Queries"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Security (bits)"}),
	)

	line.SetXAxis(s.Config.Queries())
	for _, blowup := range s.Config.BlowupFactors {
		series := s.Series(blowup)
		conjectured := make([]opts.LineData, len(series))
		proven := make([]opts.LineData, len(series))
		for i, p := range series {
			conjectured[i] = opts.LineData{Value: p.Conjectured}
			proven[i] = opts.LineData{Value: p.Proven}
		}
		line.AddSeries(fmt.Sprintf("conjectured, blowup %d", blowup), conjectured)
		line.AddSeries(fmt.Sprintf("proven, blowup %d", blowup), proven)
	}
	return line
}

// Render writes the chart as a standalone HTML page
func (s *Sweep) Render(w io.Writer) error {
	page := components.NewPage().SetPageTitle("STARK proof security sweep")
	page.AddCharts(s.Chart())
	return page.Render(w)
}

func log2(n uint64) int {
	k := 0
	for n > 1 {
		n >>= 1
		k++
	}
	return k
}
