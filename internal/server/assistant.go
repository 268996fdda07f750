package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AskAssistantRequest struct {
	Question string `json:"question"`
}

func (s *Server) AskAssistant(c *gin.Context) {
	var req AskAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	answer, err := s.assistantSvc.AskQuestion(c.Request.Context(), req.Question)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) AssistantInsights(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.profileSvc.Resolve(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	insights, err := s.assistantSvc.GenerateInsights(c.Request.Context(), profile)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}

func (s *Server) AssistantMotivation(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.profileSvc.Resolve(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	message, err := s.assistantSvc.GenerateMotivation(c.Request.Context(), profile)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
