// Package learners is the client for the learner resource. The backend
// names learners "apprenants" and keeps French field names; the structs
// normalize them.
package learners

import (
	"context"
	"net/url"

	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/pkg/errors"
)

type Learner struct {
	ID        string `json:"id"`
	Name      string `json:"nom"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Goals     string `json:"objectifs,omitempty"`
	Level     string `json:"niveau,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UpsertRequest carries the writable learner fields for create and update.
type UpsertRequest struct {
	Name   string `json:"nom"`
	Email  string `json:"email"`
	Goals  string `json:"objectifs,omitempty"`
	Level  string `json:"niveau,omitempty"`
	Active bool   `json:"active"`
}

type Client struct {
	caller *httpclient.Caller
}

func NewClient(caller *httpclient.Caller) *Client {
	return &Client{caller: caller}
}

func (c *Client) List(ctx context.Context) ([]Learner, error) {
	var out []Learner
	if err := c.caller.Get(ctx, "/apprenants", nil, &out); err != nil {
		return nil, errors.Wrap(err, "[learners.List]")
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Learner, error) {
	var out Learner
	if err := c.caller.Get(ctx, "/apprenants/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[learners.Get] id %s", id)
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, req UpsertRequest) (*Learner, error) {
	var out Learner
	if err := c.caller.Post(ctx, "/apprenants", req, &out); err != nil {
		return nil, errors.Wrap(err, "[learners.Create]")
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, req UpsertRequest) (*Learner, error) {
	var out Learner
	if err := c.caller.Put(ctx, "/apprenants/"+url.PathEscape(id), req, &out); err != nil {
		return nil, errors.Wrapf(err, "[learners.Update] id %s", id)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.caller.Delete(ctx, "/apprenants/"+url.PathEscape(id)); err != nil {
		return errors.Wrapf(err, "[learners.Delete] id %s", id)
	}
	return nil
}
