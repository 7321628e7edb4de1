package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/logger"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/processor"
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	Debug          bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	logger   zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config, pipeline *processor.Pipeline) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
		logger:   logger.WithComponent("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1/einvoice")
	{
		v1.POST("/send", s.handleSend)
		v1.POST("/build", s.handleBuild)
		v1.POST("/validate", s.handleValidate)
		v1.GET("/:invoice", s.handlePreview)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info().Str("address", s.config.Address).Msg("Listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSend(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	result, err := s.pipeline.Send(ctx, req.InvoiceNumber)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SendResponse{
		Message:  result.Message,
		FileName: result.FileName,
		FileURL:  result.FileURL,
	})
}

func (s *Server) handlePreview(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	doc, err := s.pipeline.Preview(ctx, c.Param("invoice"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, doc)
}

func (s *Server) handleBuild(c *gin.Context) {
	var snap assembler.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid snapshot", Details: err.Error()})
		return
	}

	doc, err := s.pipeline.Build(&snap)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, doc)
}

func (s *Server) handleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	defer cancel()

	var (
		report *processor.ValidationReport
		err    error
	)
	if req.Snapshot != nil {
		report, err = s.pipeline.ValidateSnapshot(req.Snapshot)
	} else {
		report, err = s.pipeline.Validate(ctx, req.InvoiceNumber)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Invoice: report.Invoice,
		Valid:   report.Valid,
		Errors:  report.Errors,
	})
}

// fail maps engine errors to HTTP status codes
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, model.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrMissingRequiredField):
		status, kind = http.StatusUnprocessableEntity, "missing_required_field"
	case errors.Is(err, model.ErrInvalidFieldValue):
		status, kind = http.StatusUnprocessableEntity, "invalid_field_value"
	case errors.Is(err, model.ErrMalformedInput):
		status, kind = http.StatusUnprocessableEntity, "malformed_input"
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}

	c.JSON(status, ErrorResponse{
		Error:      err.Error(),
		Kind:       kind,
		Violations: model.Messages(err),
	})
}
