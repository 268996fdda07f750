package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/routes"
)

const (
	contextUserKey    = "current_user"
	contextSessionKey = "current_session"
)

func serveIndex(c *gin.Context) {
	c.File("./public/index.html")
}

// AuthRequired authenticates the session cookie and loads the account into
// the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextSessionKey, sess)
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// authorize gates a route on the caller's role.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := s.currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), user.ID.String(), string(user.Role), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// AssistantRateLimit throttles completion-backed endpoints per user. With
// rate limiting disabled the limiter is nil and everything passes.
func (s *Server) AssistantRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.assistantLimiter == nil {
			c.Next()
			return
		}

		user, ok := s.currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		result, err := s.assistantLimiter.Allow(c.Request.Context(), user.ID)
		if err != nil {
			// redis being down must not take the tutor with it
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), "limiter_error")
			}
			c.Next()
			return
		}
		if !result.Allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), "quota")
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), c.FullPath())
		}
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok && user != nil
}

// identityState resolves the caller's session state for page routing.
// Cookie validation happens server side, so requests are never in the
// initializing state here.
func (s *Server) identityState(c *gin.Context) routes.IdentityState {
	token, ok := s.sessions.ReadToken(c)
	if !ok || strings.TrimSpace(token) == "" {
		return routes.StateAnonymous
	}
	if _, _, err := s.authsvc.Authenticate(c.Request.Context(), token); err != nil {
		return routes.StateAnonymous
	}
	return routes.StateAuthenticated
}
