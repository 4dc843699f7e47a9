package auth

import (
	"encoding/json"
	"strings"

	"github.com/mentorhub/go-mentorhub/session"
	"github.com/pkg/errors"
)

// The backend's auth payload shape has drifted across versions. Two shapes
// are in the wild:
//
//	v1: {"token": "...", "user": {"id": 7, "name": "...", "email": "...", "role": "APPRENANT"}}
//	v2: {"accessToken": "...", "refreshToken": "...", "user": {"id": "u-7", "fullName": "...", "email": "...", "role": "learner"}}
//
// authPayload accepts both and mapSession picks fields in v2-then-v1
// priority, so the rest of the client only ever sees the canonical
// session.Session shape.
type authPayload struct {
	AccessToken  string      `json:"accessToken"`
	Token        string      `json:"token"` // v1 access token
	RefreshToken string      `json:"refreshToken"`
	User         userPayload `json:"user"`
}

type userPayload struct {
	ID       flexibleID `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"fullName"`
	Name     string     `json:"name"` // v1 full name
	Role     string     `json:"role"`
}

// flexibleID absorbs backend IDs that arrive as either JSON strings or
// numbers (mentor IDs are numeric, learner IDs are strings).
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexibleID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return errors.Wrap(err, "[flexibleID.UnmarshalJSON] id is neither string nor number")
	}
	*f = flexibleID(asNumber.String())
	return nil
}

// mapSession converts a decoded auth payload into the canonical Session.
// Role normalization happens here, exactly once, at the write boundary.
func (p authPayload) mapSession() (*session.Session, error) {
	accessToken := p.AccessToken
	if accessToken == "" {
		accessToken = p.Token
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("[authPayload.mapSession] response carries no access token")
	}

	fullName := p.User.FullName
	if fullName == "" {
		fullName = p.User.Name
	}

	return &session.Session{
		AccessToken:  accessToken,
		RefreshToken: p.RefreshToken,
		User: session.UserIdentity{
			ID:       string(p.User.ID),
			Email:    p.User.Email,
			FullName: fullName,
			Role:     session.ParseRole(p.User.Role),
		},
	}, nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// backendMessage pulls a human-readable message out of an error response
// body, falling back to the raw status text.
func backendMessage(body []byte, fallback string) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}
