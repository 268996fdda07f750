package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetEnvironment(c *gin.Context) {
	envCtx, err := s.envdataSvc.EnvContext(c.Request.Context(), c.Query("location"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"context": envCtx,
		"tips":    s.envdataSvc.Tips(envCtx),
	})
}

func (s *Server) ListRecyclingCenters(c *gin.Context) {
	centers, err := s.envdataSvc.RecyclingCenters(c.Request.Context(), c.Query("location"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"centers": centers})
}
