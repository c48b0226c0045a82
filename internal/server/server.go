package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/service"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config  *Config
	router  *gin.Engine
	service *service.Service
}

// NewServer creates a new API server
func NewServer(config *Config, log *zap.Logger) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		config:  config,
		router:  router,
		service: service.New(service.WithLogger(log)),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/formats", s.handleFormats)
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/generate/file", s.handleGenerateFile)
		v1.POST("/validate", s.handleValidate)
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

func (s *Server) handleFormats(c *gin.Context) {
	infos := format.All()
	formats := make([]FormatOutput, 0, len(infos))
	for _, info := range infos {
		formats = append(formats, FormatOutput{
			Format:    string(info.Format),
			Name:      info.Name,
			Countries: info.Countries,
			Syntax:    string(info.Syntax),
			MimeType:  info.MimeType,
			Extension: info.Extension,
		})
	}
	c.JSON(http.StatusOK, FormatsResponse{Formats: formats})
}

func (s *Server) handleGenerate(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	result, err := s.service.Generate(inv)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		FileName:         result.FileName,
		FileSize:         result.FileSize,
		ValidationStatus: result.ValidationStatus,
		ValidationErrors: result.ValidationErrors,
		XMLContent:       result.XMLContent,
		PDFContent:       result.PDFContent,
	})
}

// handleGenerateFile streams the generated document itself instead of the
// JSON envelope. A non-clean verdict still produces a document; callers
// that must block delivery use /generate and inspect the verdict.
func (s *Server) handleGenerateFile(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	f, err := format.Parse(inv.OutputFormat)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	info := format.MustInfo(f)

	result, err := s.service.Generate(inv)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	content := result.XMLContent
	if len(result.PDFContent) > 0 {
		content = result.PDFContent
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Header("X-Validation-Status", result.ValidationStatus)
	c.Data(http.StatusOK, info.MimeType, content)
}

func (s *Server) handleValidate(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	result, err := s.service.Validate(inv)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:   result.Valid,
		Profile: result.Profile,
		Errors:  result.Errors,
	})
}

func (s *Server) bindInvoice(c *gin.Context) (*model.CanonicalInvoice, bool) {
	var inv model.CanonicalInvoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return nil, false
	}
	return &inv, true
}
