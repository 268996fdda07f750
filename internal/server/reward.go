package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListRewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.rewardSvc.Catalog(c.Request.Context())})
}

func (s *Server) RedeemReward(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.rewardSvc.Redeem(c.Request.Context(), user.ID, c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) ListRedemptions(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	redemptions, err := s.rewardSvc.Redemptions(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}
