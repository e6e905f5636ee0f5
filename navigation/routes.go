package navigation

// Route path constants
// All screen routes are defined here to ensure consistency and prevent typos
const (
	// Authenticated app
	RouteHome = "/"

	// Sign-in / sign-up entry screen
	RouteAuth = "/auth"

	// Password recovery
	RouteForgotPassword = "/forgot-password"
	RouteReset          = "/reset"          // deep-link landing, forwards to /reset-password
	RouteResetPassword  = "/reset-password" // recovery completion screen

	// OAuth redirect receiver (deep-link landing)
	RouteRedirect = "/redirect"
)

// ParamReset set to "1" on /auth signals "show the password-updated
// confirmation once".
const ParamReset = "reset"

// signInFlowRoutes are the screens that make up the unauthenticated flow. An
// unauthenticated user on any of these stays put; anywhere else bounces to
// the sign-in screen.
var signInFlowRoutes = map[string]bool{
	RouteAuth:           true,
	RouteForgotPassword: true,
	RouteReset:          true,
	RouteResetPassword:  true,
	RouteRedirect:       true,
}

// InSignInFlow reports whether path belongs to the unauthenticated flow.
func InSignInFlow(path string) bool {
	return signInFlowRoutes[path]
}
