package server

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authconfig "github.com/carbonctrl/carbonctrl/internal/auth/config"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	authfeatures "github.com/carbonctrl/carbonctrl/internal/auth/features"
	authoauth "github.com/carbonctrl/carbonctrl/internal/auth/oauth"
	"github.com/carbonctrl/carbonctrl/internal/routes"
)

const (
	oauthStateCookie    = "_oauth_state"
	oauthVerifierCookie = "_oauth_verifier"
	oauthCookieMaxAge   = int(10 * time.Minute / time.Second)
)

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	role, _ := authdomain.ParseRole(req.Role)
	result, err := s.authsvc.SignUp(c.Request.Context(), authdomain.SignUpRequest{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        role,
		UserAgent:   c.Request.UserAgent(),
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	profile, err := s.profileSvc.Resolve(c.Request.Context(), result.User)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": result.Session,
		"profile": profile,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.SignIn(c.Request.Context(), authdomain.SignInRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	profile, err := s.profileSvc.Resolve(c.Request.Context(), result.User)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	// best effort, a failed last-seen touch never blocks sign-in
	if err := s.profileSvc.TouchLastLogin(c.Request.Context(), result.User.ID); err != nil {
		s.log.Warn("failed to touch last login", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"session": result.Session,
		"profile": profile,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.SignOut(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	_, user, err := s.authsvc.Authenticate(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profile, err := s.profileSvc.Resolve(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": &authdomain.SessionView{
			UserID:      user.ID.String(),
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			Provider:    user.Provider,
		},
		"profile": profile,
	})
}

type AuthProviderInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	LoginPath   string `json:"login_path"`
}

func (s *Server) AuthProviders(c *gin.Context) {
	cfgs := authconfig.ParseAuthProvidersFromEnv()
	providers := make([]AuthProviderInfo, 0, len(cfgs))
	for _, cfg := range cfgs {
		name := strings.ToLower(strings.TrimSpace(cfg.Type))
		if name == "" || name == "local" {
			continue
		}
		if !cfg.Enabled || !authfeatures.ImplementedAuthFeatures[name] {
			continue
		}
		if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.AuthURL) == "" || strings.TrimSpace(cfg.TokenURL) == "" || strings.TrimSpace(cfg.APIURL) == "" {
			continue
		}

		display := strings.TrimSpace(cfg.Name)
		if display == "" {
			display = name
		}
		providers = append(providers, AuthProviderInfo{
			Name:        name,
			DisplayName: display,
			LoginPath:   "/login/" + url.PathEscape(name),
		})
	}
	sort.Slice(providers, func(i, j int) bool {
		return strings.ToLower(providers[i].DisplayName) < strings.ToLower(providers[j].DisplayName)
	})

	c.JSON(http.StatusOK, gin.H{
		"local_login_enabled": true,
		"providers":           providers,
	})
}

func (s *Server) OAuthLogin(c *gin.Context) {
	provider := c.Param("name")

	result, err := s.oauthsvc.RedirectURL(c.Request.Context(), provider, authoauth.RedirectRequest{
		RedirectURI: s.oauthRedirectURI(c, provider),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	secure := s.cfg.AuthCookieSecure
	c.SetCookie(oauthStateCookie, result.State, oauthCookieMaxAge, "/", "", secure, true)
	c.SetCookie(oauthVerifierCookie, result.CodeVerifier, oauthCookieMaxAge, "/", "", secure, true)

	c.Redirect(http.StatusFound, result.URL)
}

func (s *Server) OAuthCallback(c *gin.Context) {
	provider := c.Param("name")

	state := strings.TrimSpace(c.Query("state"))
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != expected {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	verifier, err := c.Cookie(oauthVerifierCookie)
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	s.clearOAuthCookies(c)

	exchange, err := s.oauthsvc.Exchange(c.Request.Context(), provider, authoauth.ExchangeRequest{
		Code:         c.Query("code"),
		RedirectURI:  s.oauthRedirectURI(c, provider),
		CodeVerifier: verifier,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.authsvc.SignInExternal(c.Request.Context(), authdomain.ExternalSignInRequest{
		Provider:    exchange.ProviderName,
		ExternalID:  exchange.Identity.ExternalID,
		Email:       exchange.Identity.Email,
		DisplayName: exchange.Identity.DisplayName,
		AllowSignUp: exchange.AllowSignUp,
		UserAgent:   c.Request.UserAgent(),
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	if _, err := s.profileSvc.Resolve(c.Request.Context(), result.User); err != nil {
		AbortWithError(c, err)
		return
	}
	if !result.NewUser {
		if err := s.profileSvc.TouchLastLogin(c.Request.Context(), result.User.ID); err != nil {
			s.log.Warn("failed to touch last login", zap.Error(err))
		}
	}

	c.Redirect(http.StatusFound, routes.PathDashboard)
}

func (s *Server) oauthRedirectURI(c *gin.Context, provider string) string {
	scheme := "http"
	if c.Request.TLS != nil || s.cfg.AuthCookieSecure {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/auth/callback/" + url.PathEscape(provider)
}

func (s *Server) clearOAuthCookies(c *gin.Context) {
	secure := s.cfg.AuthCookieSecure
	c.SetCookie(oauthStateCookie, "", -1, "/", "", secure, true)
	c.SetCookie(oauthVerifierCookie, "", -1, "/", "", secure, true)
}
