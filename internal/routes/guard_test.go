package routes

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		name  string
		state IdentityState
		path  string
		want  Decision
	}{
		{"landing holds while initializing", StateInitializing, "/", DecisionHold},
		{"landing is public when anonymous", StateAnonymous, "/", DecisionAllow},
		{"landing bounces authenticated users", StateAuthenticated, "/", DecisionRedirectToDashboard},

		{"initializing holds protected pages", StateInitializing, "/dashboard", DecisionHold},
		{"initializing holds login", StateInitializing, "/login", DecisionHold},
		{"initializing holds unknown pages", StateInitializing, "/anything", DecisionHold},

		{"anonymous reaches login", StateAnonymous, "/login", DecisionAllow},
		{"anonymous reaches signup", StateAnonymous, "/signup", DecisionAllow},
		{"anonymous bounced off dashboard", StateAnonymous, "/dashboard", DecisionRedirectToLanding},
		{"anonymous bounced off quizzes", StateAnonymous, "/quizzes", DecisionRedirectToLanding},
		{"anonymous bounced off unknown pages", StateAnonymous, "/no-such-page", DecisionRedirectToLanding},

		{"authenticated bounced off login", StateAuthenticated, "/login", DecisionRedirectToDashboard},
		{"authenticated bounced off signup", StateAuthenticated, "/signup", DecisionRedirectToDashboard},
		{"authenticated reaches dashboard", StateAuthenticated, "/dashboard", DecisionAllow},
		{"authenticated reaches eco-coins", StateAuthenticated, "/eco-coins", DecisionAllow},
		{"authenticated reaches unknown pages", StateAuthenticated, "/whatever", DecisionAllow},

		{"trailing slash normalized", StateAuthenticated, "/login/", DecisionRedirectToDashboard},
		{"empty path treated as landing", StateAnonymous, "", DecisionAllow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.state, tc.path); got != tc.want {
				t.Fatalf("Decide(%v, %q) = %v, want %v", tc.state, tc.path, got, tc.want)
			}
		})
	}
}
