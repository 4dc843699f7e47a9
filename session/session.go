package session

import "strings"

// Role is the canonical set of platform roles. Backend responses carry
// role values in assorted casings and languages (the booking backend is
// French: "APPRENANT" for learner), so all role values entering the
// client pass through ParseRole exactly once.
type Role string

const (
	RoleMentor  Role = "mentor"
	RoleLearner Role = "learner"
	RoleAdmin   Role = "admin"
)

// roleAliases maps lowercased backend role spellings onto canonical roles.
var roleAliases = map[string]Role{
	"mentor":         RoleMentor,
	"mentore":        RoleMentor,
	"learner":        RoleLearner,
	"apprenant":      RoleLearner,
	"apprentice":     RoleLearner,
	"student":        RoleLearner,
	"admin":          RoleAdmin,
	"administrateur": RoleAdmin,
	"administrator":  RoleAdmin,
}

// ParseRole normalizes a backend role value case-insensitively.
// Unrecognized values default to RoleLearner, the least privileged role.
func ParseRole(raw string) Role {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return role
	}
	return RoleLearner
}

// UserIdentity is the authenticated user as the client knows them.
type UserIdentity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Session is the client-held proof of authentication. A Session exists in
// the Store if and only if the user is logged in; there is no separate
// logged-in flag anywhere.
type Session struct {
	AccessToken  string       `json:"accessToken"`  // Bearer credential for API calls, opaque to the client
	RefreshToken string       `json:"refreshToken"` // Empty string means no refresh capability
	User         UserIdentity `json:"user"`
}

// HasRefreshToken reports whether the session can mint new access tokens
// without re-entering credentials.
func (s *Session) HasRefreshToken() bool {
	return s != nil && s.RefreshToken != ""
}
