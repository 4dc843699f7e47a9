// Package bookings is the client for mentoring session bookings.
package bookings

import (
	"context"
	"net/url"

	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

type Booking struct {
	ID                 string `json:"id"`
	MentorID           string `json:"mentorId"`
	LearnerID          string `json:"apprenantId"`
	DateTime           string `json:"dateTime"` // ISO datetime
	Status             Status `json:"status"`
	Notes              string `json:"notes,omitempty"`
	MentorName         string `json:"mentorName,omitempty"`
	LearnerName        string `json:"apprenantName,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`
	CancellationType   string `json:"cancellationType,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// CreateRequest books a mentoring session.
type CreateRequest struct {
	MentorID  string `json:"mentorId"`
	LearnerID string `json:"apprenantId"`
	DateTime  string `json:"dateTime"`
	Notes     string `json:"notes,omitempty"`
}

type Client struct {
	caller *httpclient.Caller
}

func NewClient(caller *httpclient.Caller) *Client {
	return &Client{caller: caller}
}

// ForMentor lists a mentor's bookings, the mentor-dashboard view.
func (c *Client) ForMentor(ctx context.Context, mentorID string) ([]Booking, error) {
	var out []Booking
	if err := c.caller.Get(ctx, "/bookings/mentor/"+url.PathEscape(mentorID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[bookings.ForMentor] mentor %s", mentorID)
	}
	return out, nil
}

// ForLearner lists a learner's bookings, the learner-dashboard view.
func (c *Client) ForLearner(ctx context.Context, learnerID string) ([]Booking, error) {
	var out []Booking
	if err := c.caller.Get(ctx, "/bookings/apprenant/"+url.PathEscape(learnerID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[bookings.ForLearner] learner %s", learnerID)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Booking, error) {
	var out Booking
	if err := c.caller.Get(ctx, "/bookings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[bookings.Get] id %s", id)
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	var out Booking
	if err := c.caller.Post(ctx, "/bookings", req, &out); err != nil {
		return nil, errors.Wrap(err, "[bookings.Create]")
	}
	return &out, nil
}

// UpdateStatus moves a booking through its lifecycle
// (confirm, complete).
func (c *Client) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	body := map[string]string{"status": string(status)}
	var out Booking
	if err := c.caller.Put(ctx, "/bookings/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, errors.Wrapf(err, "[bookings.UpdateStatus] id %s", id)
	}
	return &out, nil
}

// Cancel cancels a booking with a reason the other party will see.
func (c *Client) Cancel(ctx context.Context, id, reason string) (*Booking, error) {
	body := map[string]string{
		"status":             string(StatusCancelled),
		"cancellationReason": reason,
	}
	var out Booking
	if err := c.caller.Put(ctx, "/bookings/"+url.PathEscape(id)+"/cancel", body, &out); err != nil {
		return nil, errors.Wrapf(err, "[bookings.Cancel] id %s", id)
	}
	return &out, nil
}
