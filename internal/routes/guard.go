// Package routes decides how page requests are routed based on the
// caller's identity state. The decision logic is pure so the policy can
// be exercised without HTTP plumbing.
package routes

import "strings"

// IdentityState is the caller's position in the session lifecycle.
type IdentityState int

const (
	// StateInitializing means session restoration has not finished yet.
	StateInitializing IdentityState = iota
	StateAnonymous
	StateAuthenticated
)

// Decision is the guard's verdict for a page request.
type Decision int

const (
	// DecisionHold asks the caller to wait until the state settles.
	DecisionHold Decision = iota
	DecisionAllow
	DecisionRedirectToLanding
	DecisionRedirectToDashboard
)

const (
	PathLanding   = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathDashboard = "/dashboard"
)

// ProtectedPages lists the authenticated product surface. Unknown paths
// fall through to the catch-all and are treated as protected.
var ProtectedPages = []string{
	PathDashboard,
	"/quizzes",
	"/games",
	"/missions",
	"/leaderboard",
	"/eco-coins",
	"/ar-missions",
}

// publicOnlyPages bounce signed-in users back into the product.
var publicOnlyPages = map[string]bool{
	PathLanding: true,
	PathLogin:   true,
	PathSignup:  true,
}

// Decide maps an identity state and request path to a routing verdict.
//
//	landing/login/signup bounce authenticated users to the dashboard
//	everything else requires a session and bounces to the landing page
func Decide(state IdentityState, path string) Decision {
	path = normalize(path)

	if state == StateInitializing {
		return DecisionHold
	}

	if publicOnlyPages[path] {
		if state == StateAuthenticated {
			return DecisionRedirectToDashboard
		}
		return DecisionAllow
	}

	if state == StateAuthenticated {
		return DecisionAllow
	}
	return DecisionRedirectToLanding
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathLanding
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
