package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubmitScoreRequest struct {
	Score int64 `json:"score"`
}

func (s *Server) ListGames(c *gin.Context) {
	games, err := s.gameSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (s *Server) SubmitGameScore(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.gameSvc.SubmitScore(c.Request.Context(), user.ID, c.Param("code"), req.Score)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ListGameRecords(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	records, err := s.gameSvc.Records(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
