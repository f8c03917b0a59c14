package backend

import (
	"context"
	"net/http"
	"net/url"
)

type rejectRequest struct {
	Reason string `json:"reason"`
}

func applicantPath(kind ApplicantKind, id string) string {
	p := "/admin/" + string(kind)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Client) ListApplicants(ctx context.Context, token string, kind ApplicantKind) ([]Applicant, error) {
	var out []Applicant
	if err := c.do(ctx, "admin."+string(kind)+".list", http.MethodGet, applicantPath(kind, ""), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveApplicant(ctx context.Context, token string, kind ApplicantKind, id string) error {
	return c.do(ctx, "admin."+string(kind)+".approve", http.MethodPut,
		applicantPath(kind, id)+"/approve", token, nil, nil)
}

func (c *Client) RejectApplicant(ctx context.Context, token string, kind ApplicantKind, id, reason string) error {
	return c.do(ctx, "admin."+string(kind)+".reject", http.MethodPut,
		applicantPath(kind, id)+"/reject", token, rejectRequest{Reason: reason}, nil)
}

func (c *Client) DeleteApplicant(ctx context.Context, token string, kind ApplicantKind, id string) error {
	return c.do(ctx, "admin."+string(kind)+".delete", http.MethodDelete, applicantPath(kind, id), token, nil, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var out []User
	if err := c.do(ctx, "admin.users.list", http.MethodGet, "/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, "admin.users.delete", http.MethodDelete, "/admin/users/"+url.PathEscape(id), token, nil, nil)
}
