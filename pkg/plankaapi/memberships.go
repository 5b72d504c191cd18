package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
)

// Board membership roles.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// CreateBoardMembershipRequest is the body of a membership create.
type CreateBoardMembershipRequest struct {
	BoardID string
	UserID  string
	Role    string
}

func (r CreateBoardMembershipRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("boardId")
	e.Str(r.BoardID)
	e.FieldStart("userId")
	e.Str(r.UserID)
	e.FieldStart("role")
	e.Str(r.Role)
	e.ObjEnd()
}

// UpdateBoardMembershipRequest is a partial membership update.
type UpdateBoardMembershipRequest struct {
	Role       OptString
	CanComment OptBool
}

func (r UpdateBoardMembershipRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Role.encode(e, "role")
	r.CanComment.encode(e, "canComment")
	e.ObjEnd()
}

// GetBoardMemberships lists the memberships of a board.
func (c *Client) GetBoardMemberships(ctx context.Context, boardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/boards/%s/memberships", boardID), nil)
}

// CreateBoardMembership adds a user to a board.
func (c *Client) CreateBoardMembership(ctx context.Context, req CreateBoardMembershipRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/boards/%s/memberships", req.BoardID), req)
}

// GetBoardMembership returns one membership.
func (c *Client) GetBoardMembership(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/board-memberships/%s", id), nil)
}

// UpdateBoardMembership applies a partial update to a membership.
func (c *Client) UpdateBoardMembership(ctx context.Context, id string, req UpdateBoardMembershipRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/board-memberships/%s", id), req)
}

// DeleteBoardMembership removes a membership.
func (c *Client) DeleteBoardMembership(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/board-memberships/%s", id), nil)
}
