// Package mentors is the client for the mentor resource. The backend's
// field names are French (nom, competences); the structs here normalize
// them to the canonical client shape through JSON tags.
package mentors

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/pkg/errors"
)

// Status is the admin-managed mentor lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusSuspended Status = "SUSPENDED"
)

type Mentor struct {
	ID               int64  `json:"id"`
	Name             string `json:"nom"`
	Email            string `json:"email"`
	Skills           string `json:"competences"`
	Experience       string `json:"experience"`
	Available        bool   `json:"available"`
	Active           bool   `json:"active"`
	Role             string `json:"role"`
	Status           Status `json:"status"`
	SuspensionReason string `json:"suspensionReason,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// CreateRequest carries the fields a new mentor record needs.
type CreateRequest struct {
	Name       string `json:"nom"`
	Email      string `json:"email"`
	Skills     string `json:"competences"`
	Experience string `json:"experience"`
	Available  bool   `json:"available"`
	Active     bool   `json:"active"`
	Role       string `json:"role"`
}

// UpdateRequest extends CreateRequest with the identity and status fields
// an edit may touch.
type UpdateRequest struct {
	CreateRequest
	ID               int64  `json:"id"`
	Status           Status `json:"status,omitempty"`
	SuspensionReason string `json:"suspensionReason,omitempty"`
}

// ListFilters narrows a mentor listing. Zero values are omitted from the
// query string.
type ListFilters struct {
	Available *bool
	Skills    string
	Search    string
}

type Client struct {
	caller *httpclient.Caller
}

func NewClient(caller *httpclient.Caller) *Client {
	return &Client{caller: caller}
}

// List returns mentors matching the filters.
func (c *Client) List(ctx context.Context, filters ListFilters) ([]Mentor, error) {
	query := url.Values{}
	if filters.Available != nil {
		query.Set("available", strconv.FormatBool(*filters.Available))
	}
	if filters.Skills != "" {
		query.Set("competences", filters.Skills)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var out []Mentor
	if err := c.caller.Get(ctx, "/mentors", query, &out); err != nil {
		return nil, errors.Wrap(err, "[mentors.List]")
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*Mentor, error) {
	var out Mentor
	if err := c.caller.Get(ctx, fmt.Sprintf("/mentors/%d", id), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[mentors.Get] id %d", id)
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*Mentor, error) {
	var out Mentor
	if err := c.caller.Post(ctx, "/mentors", req, &out); err != nil {
		return nil, errors.Wrap(err, "[mentors.Create]")
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, req UpdateRequest) (*Mentor, error) {
	var out Mentor
	if err := c.caller.Put(ctx, fmt.Sprintf("/mentors/%d", id), req, &out); err != nil {
		return nil, errors.Wrapf(err, "[mentors.Update] id %d", id)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.caller.Delete(ctx, fmt.Sprintf("/mentors/%d", id)); err != nil {
		return errors.Wrapf(err, "[mentors.Delete] id %d", id)
	}
	return nil
}

// Search runs a free-text mentor search.
func (c *Client) Search(ctx context.Context, q string) ([]Mentor, error) {
	query := url.Values{}
	query.Set("q", q)

	var out []Mentor
	if err := c.caller.Get(ctx, "/mentors/search", query, &out); err != nil {
		return nil, errors.Wrap(err, "[mentors.Search]")
	}
	return out, nil
}

// BySkills lists mentors holding a given competence.
func (c *Client) BySkills(ctx context.Context, skills string) ([]Mentor, error) {
	var out []Mentor
	if err := c.caller.Get(ctx, "/mentors/competences/"+url.PathEscape(skills), nil, &out); err != nil {
		return nil, errors.Wrap(err, "[mentors.BySkills]")
	}
	return out, nil
}
