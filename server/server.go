package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simrl/simenv/wire"
)

const (
	serviceName    = "simenv simulation service"
	serviceVersion = "1.0.0"
)

// Server exposes an Engine over HTTP.
type Server struct {
	engine *Engine
	router *gin.Engine
	http   *http.Server
}

func New(engine *Engine, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: engine}
	r := gin.New()
	r.GET("/info", s.handleInfo)
	r.POST("/spaces", s.handleSpaces)
	r.POST("/create", s.handleCreate)
	r.POST("/reset", s.handleReset)
	r.POST("/step", s.handleStep)
	r.POST("/close", s.handleClose)
	s.router = r
	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Handler exposes the route table, mainly for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	log.Printf("server: %s listening on %s", serviceName, s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleInfo(c *gin.Context) {
	scenarios := s.engine.Scenarios()
	envIDs := s.engine.EnvIDs()
	c.JSON(http.StatusOK, wire.InfoResponse{
		Name:      serviceName,
		Version:   serviceVersion,
		Scenarios: scenarios,
		EnvIDs:    envIDs,
		Info: map[string]string{
			"total_scenarios":     fmt.Sprintf("%d", len(scenarios)),
			"active_environments": fmt.Sprintf("%d", len(envIDs)),
		},
	})
}

func (s *Server) handleSpaces(c *gin.Context) {
	var req wire.SpacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	resp, err := s.engine.Spaces(req.Scenario, req.EnvID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req wire.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.engine.Create(req.EnvID, req.Scenario, req.Config); err != nil {
		c.JSON(http.StatusOK, wire.CreateResponse{Success: false, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, wire.CreateResponse{
		Success: true,
		Message: fmt.Sprintf("environment %s created", req.EnvID),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	var req wire.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	env, ok := s.engine.Env(req.EnvID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("environment %s not found", req.EnvID)})
		return
	}
	observations, err := env.Reset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wire.ResetResponse{
		Observations: observations,
		Info:         env.Info(),
	})
}

func (s *Server) handleStep(c *gin.Context) {
	var req wire.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	env, ok := s.engine.Env(req.EnvID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("environment %s not found", req.EnvID)})
		return
	}
	for i, a := range req.Actions {
		if err := a.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("action %d: %v", i, err)})
			return
		}
	}
	observations, rewards, done, err := env.Step(req.Actions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wire.StepResponse{
		Observations: observations,
		Rewards:      rewards,
		Done:         done,
		Info:         env.Info(),
	})
}

func (s *Server) handleClose(c *gin.Context) {
	var req wire.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.engine.Close(req.EnvID); err != nil {
		c.JSON(http.StatusOK, wire.CloseResponse{Success: false, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, wire.CloseResponse{
		Success: true,
		Message: fmt.Sprintf("environment %s closed", req.EnvID),
	})
}
