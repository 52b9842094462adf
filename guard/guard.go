// Package guard decides, per navigation attempt, whether the client may
// enter a route. Guards never fail: every evaluation terminates in either an
// allow or a deny carrying the redirect target.
package guard

import (
	"context"
	"net/url"
	"time"

	"github.com/4clab/labauth/notify"
	"github.com/4clab/labauth/permission"
	"github.com/4clab/labauth/session"
)

const (
	// LoginRoute is where unauthenticated navigation is redirected.
	LoginRoute = "/login"
	// ForbiddenRoute is where authenticated-but-unauthorized navigation is
	// redirected by the admin variants.
	ForbiddenRoute = "/forbidden"
	// DefaultLanding is the landing route for roles without a dedicated area.
	DefaultLanding = "/dashboard"
)

// publicRoutes are reachable without a session. Matching is by path prefix,
// plus the exact root.
var publicRoutes = []string{LoginRoute, "/forgot-password", "/contact"}

// landingRoutes is the single source of truth mapping a role to its
// post-login area. Both guard redirects and login flows consult it.
var landingRoutes = map[string]string{
	permission.RoleAdmin:      "/admin",
	permission.RoleSuperAdmin: "/admin",
	permission.RoleFormateur:  "/formateur",
	permission.RoleApprenant:  "/apprenant",
}

// LandingRoute returns the role's landing route, or [DefaultLanding] for
// anything unrecognized.
func LandingRoute(role string) string {
	if r, ok := landingRoutes[role]; ok {
		return r
	}
	return DefaultLanding
}

// Decision is the outcome of one guard evaluation. RedirectTo is set exactly
// when Allow is false.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Guard evaluates navigation against the client session. The notifier is
// optional; when set, denials are reported through it.
type Guard struct {
	session  *session.Store
	notifier *notify.Dispatcher
}

// New creates a guard over the session store.
func New(s *session.Store) *Guard {
	return &Guard{session: s}
}

// WithNotifier attaches a notification dispatcher for denial feedback.
func (g *Guard) WithNotifier(d *notify.Dispatcher) *Guard {
	g.notifier = d
	return g
}

// Evaluate applies the base navigation rules to target:
//
//  1. authenticated on /login or / — deny, redirect to the role's landing
//  2. authenticated elsewhere — allow
//  3. unauthenticated on a public route — allow
//  4. unauthenticated elsewhere — deny, redirect to /login with returnUrl
func (g *Guard) Evaluate(target string) Decision {
	if g.session.Authenticated() {
		if target == LoginRoute || target == "/" {
			return redirect(LandingRoute(g.session.Role()))
		}
		return allow()
	}

	if isPublic(target) {
		return allow()
	}

	g.notifyDenied(target, "sign in to continue")
	return redirect(loginRedirect(target))
}

// RequireAdmin allows only admin and superadmin sessions. Unauthenticated
// navigation goes to login; an authenticated non-admin goes to /forbidden.
func (g *Guard) RequireAdmin(target string) Decision {
	return g.require(target, permission.IsAdmin)
}

// RequireSuperAdmin allows only superadmin sessions.
func (g *Guard) RequireSuperAdmin(target string) Decision {
	return g.require(target, permission.IsSuperAdmin)
}

func (g *Guard) require(target string, ok func(role string) bool) Decision {
	if !g.session.Authenticated() {
		g.notifyDenied(target, "sign in to continue")
		return redirect(loginRedirect(target))
	}
	if !ok(g.session.Role()) {
		g.notifyDenied(target, "insufficient permissions")
		return redirect(ForbiddenRoute)
	}
	return allow()
}

func isPublic(target string) bool {
	if target == "/" {
		return true
	}
	for _, route := range publicRoutes {
		if len(target) >= len(route) && target[:len(route)] == route {
			return true
		}
	}
	return false
}

// loginRedirect attaches the original URL so login can return the user.
func loginRedirect(target string) string {
	return LoginRoute + "?returnUrl=" + url.QueryEscape(target)
}

func (g *Guard) notifyDenied(target, message string) {
	if g.notifier == nil {
		return
	}
	g.notifier.Emit(context.Background(), notify.Event{
		Timestamp: time.Now(),
		EventType: "navigation_denied",
		Level:     notify.LevelWarning,
		Message:   message,
		Metadata:  map[string]string{"target": target},
	})
}
