// Package admin is the client for the admin endpoints: mentor status
// management, evaluations, mentoring sessions and platform statistics.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/mentorhub/go-mentorhub/learners"
	"github.com/mentorhub/go-mentorhub/mentors"
	"github.com/pkg/errors"
)

// Evaluation is a learner's rating of a mentoring session.
type Evaluation struct {
	ID        int64   `json:"id"`
	Rating    float64 `json:"note"`
	Comment   string  `json:"commentaire"`
	SessionID int64   `json:"sessionId"`
	Date      string  `json:"date"`
}

// Session is a mentoring session record as the admin sees it.
type Session struct {
	ID        int64  `json:"id"`
	DateTime  string `json:"dateHeure"`
	Subject   string `json:"sujet"`
	MentorID  int64  `json:"mentorId"`
	LearnerID int64  `json:"apprenantId"`
}

type MentorStats struct {
	TotalSessions    int     `json:"totalSessions"`
	TotalEvaluations int     `json:"totalEvaluations"`
	AverageRating    float64 `json:"averageRating"`
}

type LearnerStats struct {
	TotalSessions      int     `json:"totalSessions"`
	TotalEvaluations   int     `json:"totalEvaluations"`
	AverageRatingGiven float64 `json:"averageRatingGiven"`
}

// DashboardStats is the admin home-view aggregate.
type DashboardStats struct {
	TotalMentors      int `json:"totalMentors"`
	TotalLearners     int `json:"totalApprenants"`
	TotalSessions     int `json:"totalSessions"`
	PendingMentors    int `json:"pendingMentors"`
	ActiveBookings    int `json:"activeBookings"`
	CompletedSessions int `json:"completedSessions"`
}

// EvaluationFilters narrows an evaluation listing.
type EvaluationFilters struct {
	MentorID  int64
	MinRating float64
}

// SessionFilters narrows a session listing.
type SessionFilters struct {
	MentorID  int64
	LearnerID int64
	Status    string
}

type Client struct {
	caller *httpclient.Caller
}

func NewClient(caller *httpclient.Caller) *Client {
	return &Client{caller: caller}
}

// Mentors lists all mentors, optionally filtered by status.
func (c *Client) Mentors(ctx context.Context, status mentors.Status) ([]mentors.Mentor, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var out []mentors.Mentor
	if err := c.caller.Get(ctx, "/admin/mentors", query, &out); err != nil {
		return nil, errors.Wrap(err, "[admin.Mentors]")
	}
	return out, nil
}

// UpdateMentorStatus approves, rejects or suspends a mentor. reason is
// required for suspensions and carried to the mentor.
func (c *Client) UpdateMentorStatus(ctx context.Context, id int64, status mentors.Status, reason string) (*mentors.Mentor, error) {
	body := map[string]string{"status": string(status)}
	if reason != "" {
		body["reason"] = reason
	}
	var out mentors.Mentor
	if err := c.caller.Put(ctx, fmt.Sprintf("/admin/mentors/%d/status", id), body, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.UpdateMentorStatus] id %d", id)
	}
	return &out, nil
}

func (c *Client) UpdateMentor(ctx context.Context, id int64, req mentors.UpdateRequest) (*mentors.Mentor, error) {
	var out mentors.Mentor
	if err := c.caller.Put(ctx, fmt.Sprintf("/admin/mentors/%d", id), req, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.UpdateMentor] id %d", id)
	}
	return &out, nil
}

func (c *Client) DeleteMentor(ctx context.Context, id int64) error {
	if err := c.caller.Delete(ctx, fmt.Sprintf("/admin/mentors/%d", id)); err != nil {
		return errors.Wrapf(err, "[admin.DeleteMentor] id %d", id)
	}
	return nil
}

func (c *Client) MentorEvaluations(ctx context.Context, mentorID int64) ([]Evaluation, error) {
	var out []Evaluation
	if err := c.caller.Get(ctx, fmt.Sprintf("/admin/mentors/%d/evaluations", mentorID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.MentorEvaluations] mentor %d", mentorID)
	}
	return out, nil
}

func (c *Client) Evaluations(ctx context.Context, filters EvaluationFilters) ([]Evaluation, error) {
	query := url.Values{}
	if filters.MentorID != 0 {
		query.Set("mentorId", strconv.FormatInt(filters.MentorID, 10))
	}
	if filters.MinRating != 0 {
		query.Set("minRating", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
	}
	var out []Evaluation
	if err := c.caller.Get(ctx, "/admin/evaluations", query, &out); err != nil {
		return nil, errors.Wrap(err, "[admin.Evaluations]")
	}
	return out, nil
}

func (c *Client) MentorSessions(ctx context.Context, mentorID int64) ([]Session, error) {
	var out []Session
	if err := c.caller.Get(ctx, fmt.Sprintf("/admin/mentors/%d/sessions", mentorID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.MentorSessions] mentor %d", mentorID)
	}
	return out, nil
}

func (c *Client) Sessions(ctx context.Context, filters SessionFilters) ([]Session, error) {
	query := url.Values{}
	if filters.MentorID != 0 {
		query.Set("mentorId", strconv.FormatInt(filters.MentorID, 10))
	}
	if filters.LearnerID != 0 {
		query.Set("apprenantId", strconv.FormatInt(filters.LearnerID, 10))
	}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	var out []Session
	if err := c.caller.Get(ctx, "/admin/sessions", query, &out); err != nil {
		return nil, errors.Wrap(err, "[admin.Sessions]")
	}
	return out, nil
}

func (c *Client) MentorStats(ctx context.Context, mentorID int64) (*MentorStats, error) {
	var out MentorStats
	if err := c.caller.Get(ctx, fmt.Sprintf("/admin/mentors/%d/stats", mentorID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.MentorStats] mentor %d", mentorID)
	}
	return &out, nil
}

func (c *Client) LearnerStats(ctx context.Context, learnerID string) (*LearnerStats, error) {
	var out LearnerStats
	if err := c.caller.Get(ctx, "/admin/apprenants/"+url.PathEscape(learnerID)+"/stats", nil, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.LearnerStats] learner %s", learnerID)
	}
	return &out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.caller.Get(ctx, "/admin/dashboard/stats", nil, &out); err != nil {
		return nil, errors.Wrap(err, "[admin.DashboardStats]")
	}
	return &out, nil
}

// Learners lists all learners, optionally filtered to active ones.
func (c *Client) Learners(ctx context.Context, active *bool) ([]learners.Learner, error) {
	query := url.Values{}
	if active != nil {
		query.Set("active", strconv.FormatBool(*active))
	}
	var out []learners.Learner
	if err := c.caller.Get(ctx, "/admin/apprenants", query, &out); err != nil {
		return nil, errors.Wrap(err, "[admin.Learners]")
	}
	return out, nil
}

// SetLearnerActive toggles a learner account.
func (c *Client) SetLearnerActive(ctx context.Context, id string, active bool) (*learners.Learner, error) {
	body := map[string]bool{"active": active}
	var out learners.Learner
	if err := c.caller.Put(ctx, "/admin/apprenants/"+url.PathEscape(id)+"/active", body, &out); err != nil {
		return nil, errors.Wrapf(err, "[admin.SetLearnerActive] id %s", id)
	}
	return &out, nil
}
