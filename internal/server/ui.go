package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carbonctrl/carbonctrl/internal/routes"
)

// registerUIRoutes serves the SPA entry points. Routing policy lives in the
// routes package; this layer only translates decisions into responses.
func (s *Server) registerUIRoutes() {
	r := s.engine.Group("/")

	r.GET("/", s.guardPage())
	r.GET("/login", s.guardPage())
	r.GET("/login/:name", s.OAuthLogin)
	r.GET("/signup", s.guardPage())

	for _, page := range routes.ProtectedPages {
		r.GET(page, s.guardPage())
	}
}

func (s *Server) guardPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch routes.Decide(s.identityState(c), c.Request.URL.Path) {
		case routes.DecisionAllow:
			serveIndex(c)
		case routes.DecisionRedirectToLanding:
			c.Redirect(http.StatusFound, routes.PathLanding)
		case routes.DecisionRedirectToDashboard:
			c.Redirect(http.StatusFound, routes.PathDashboard)
		default:
			serveIndex(c)
		}
	}
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		// static assets (vite)
		if fileExists("./public", c.Request.URL.Path) {
			c.File("./public" + c.Request.URL.Path)
			return
		}

		// API misses stay JSON
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/auth/") {
			AbortWithError(c, ErrNotFound)
			return
		}

		// unknown pages are treated as protected
		switch routes.Decide(s.identityState(c), c.Request.URL.Path) {
		case routes.DecisionRedirectToLanding:
			c.Redirect(http.StatusFound, routes.PathLanding)
		default:
			serveIndex(c)
		}
	})
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean(reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || clean == ".." {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
