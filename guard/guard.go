// Package guard holds the navigation predicates consulted before a
// protected view is entered. Guards only decide; redirecting is the
// navigation layer's job.
package guard

import (
	"context"

	"github.com/mentorhub/go-mentorhub/auth"
	"github.com/mentorhub/go-mentorhub/session"
)

// Decision is the outcome of a guard check. When Allowed is false,
// RedirectTo names the route the navigation layer should go to instead.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(route string) Decision {
	return Decision{RedirectTo: route}
}

// Routes names the redirect targets the guards hand back.
type Routes struct {
	SignIn string // where unauthenticated users are sent
	Home   string // where authorized-but-wrong-role users are sent
}

// DefaultRoutes matches the app's route table.
var DefaultRoutes = Routes{SignIn: "/sign-in", Home: "/"}

// AuthGuard permits navigation for authenticated users with a live access
// token, refreshing on demand when the token has expired.
type AuthGuard struct {
	service *auth.Service
	routes  Routes
}

func NewAuthGuard(service *auth.Service, routes Routes) *AuthGuard {
	return &AuthGuard{service: service, routes: routes}
}

// Check evaluates the guard. An expired token with refresh capability
// suspends the navigation on a refresh attempt: success permits, failure
// has already signed the user out and redirects to sign-in.
func (g *AuthGuard) Check(ctx context.Context) Decision {
	if !g.service.IsAuthenticated() {
		return redirect(g.routes.SignIn)
	}
	if !g.service.IsAccessTokenExpired() {
		return allow()
	}
	if g.service.RefreshToken() == "" {
		g.service.SignOut()
		return redirect(g.routes.SignIn)
	}
	if _, err := g.service.Refresh(ctx); err != nil {
		return redirect(g.routes.SignIn)
	}
	return allow()
}

// RoleGuard permits navigation when the authenticated user's role matches
// the role the destination view declares.
type RoleGuard struct {
	service *auth.Service
	routes  Routes
}

func NewRoleGuard(service *auth.Service, routes Routes) *RoleGuard {
	return &RoleGuard{service: service, routes: routes}
}

// Check evaluates the guard against the route's expected role. A signed-in
// user with the wrong role is valid, just not authorized for the view, so
// they go home rather than to sign-in.
func (g *RoleGuard) Check(expectedRole session.Role) Decision {
	if !g.service.IsAuthenticated() {
		return redirect(g.routes.SignIn)
	}
	user := g.service.CurrentUser()
	if user == nil {
		return redirect(g.routes.SignIn)
	}
	if user.Role != expectedRole {
		return redirect(g.routes.Home)
	}
	return allow()
}
