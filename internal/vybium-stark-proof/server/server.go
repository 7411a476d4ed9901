// Package server exposes the security estimator and proof inspection over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/numeric"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Server is the HTTP scoring service. Handlers only read immutable state.
type Server struct {
	config    *utils.Config
	estimator *security.Estimator
	hasher    crypto.Hasher
	router    *gin.Engine
}

// SecurityRequest asks for the security of a parameter set
type SecurityRequest struct {
	NumQueries          int    `json:"num_queries" binding:"required"`
	BlowupFactor        int    `json:"blowup_factor" binding:"required"`
	GrindingFactor      int    `json:"grinding_factor"`
	FieldExtension      string `json:"field_extension"`
	BaseFieldBits       uint32 `json:"base_field_bits"`
	TraceLength         uint64 `json:"trace_length" binding:"required"`
	CollisionResistance uint32 `json:"collision_resistance"`
}

// SecurityResponse carries both bounds and the proven-bound breakdown
type SecurityResponse struct {
	Conjectured uint32                 `json:"conjectured"`
	Proven      uint32                 `json:"proven"`
	Breakdown   *security.ProvenReport `json:"breakdown"`
}

// InspectRequest carries a hex-encoded proof
type InspectRequest struct {
	Proof               hexutil.Bytes `json:"proof" binding:"required"`
	CollisionResistance uint32        `json:"collision_resistance"`
}

// New creates a server from a validated configuration
func New(config *utils.Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	backend, err := numeric.ByName(config.NumericBackend)
	if err != nil {
		return nil, err
	}
	hasher, err := crypto.ByName(config.HashFunction)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    config.Clone(),
		estimator: security.NewEstimator(backend),
		hasher:    hasher,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", healthCheck)
	router.POST("/security", s.estimateSecurity)
	router.POST("/inspect", s.inspectProof)
	s.router = router
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until the server fails
func (s *Server) Run() error {
	log.Info().
		Str("addr", s.config.ListenAddr).
		Str("hash", s.hasher.Name()).
		Str("backend", s.estimator.Backend().Name()).
		Msg("Starting scoring service")
	return s.router.Run(s.config.ListenAddr)
}

// collisionResistance picks the request value, then the configured override,
// then the hasher's own bound.
func (s *Server) collisionResistance(requested uint32) uint32 {
	if requested != 0 {
		return requested
	}
	if s.config.CollisionResistance != 0 {
		return s.config.CollisionResistance
	}
	return s.hasher.CollisionResistance()
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Health check passed",
	})
}

func (s *Server) estimateSecurity(c *gin.Context) {
	var req SecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FieldExtension == "" {
		req.FieldExtension = "none"
	}
	ext, err := air.ParseFieldExtension(req.FieldExtension)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseFieldBits == 0 {
		req.BaseFieldBits = 64
	}
	options, err := air.NewProofOptions(req.NumQueries, req.BlowupFactor, req.GrindingFactor, ext, 8, 127)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cr := s.collisionResistance(req.CollisionResistance)
	var report *security.ProvenReport
	err = security.ValidateTraceLength(req.TraceLength)
	if err == nil {
		report, err = s.estimator.Breakdown(options, req.BaseFieldBits, req.TraceLength, cr)
	}
	if err != nil {
		status := http.StatusInternalServerError
		var cfgErr *security.ConfigError
		if errors.As(err, &cfgErr) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := SecurityResponse{
		Conjectured: s.estimator.Conjectured(options, req.BaseFieldBits, req.TraceLength, cr),
		Proven:      report.Level,
		Breakdown:   report,
	}
	log.Debug().
		Str("options", options.String()).
		Uint64("trace_length", req.TraceLength).
		Uint32("conjectured", resp.Conjectured).
		Uint32("proven", resp.Proven).
		Msg("Estimated security")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) inspectProof(c *gin.Context) {
	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := proof.FromBytes(req.Proof)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("failed to decode proof: %v", err)})
		return
	}

	summary, err := Summarize(p, len(req.Proof), s.estimator, s.collisionResistance(req.CollisionResistance))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	log.Debug().
		Int("size", summary.SizeBytes).
		Uint32("proven", summary.ProvenSecurity).
		Msg("Inspected proof")
	c.JSON(http.StatusOK, summary)
}
