package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// CreateTaskRequest is the body of a task create.
type CreateTaskRequest struct {
	CardID   string
	Name     string
	Position OptFloat64
}

func (r CreateTaskRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("cardId")
	e.Str(r.CardID)
	e.FieldStart("name")
	e.Str(r.Name)
	r.Position.encode(e, "position")
	e.ObjEnd()
}

// UpdateTaskRequest is a partial task update.
type UpdateTaskRequest struct {
	Name        OptString
	Position    OptFloat64
	IsCompleted OptBool
}

func (r UpdateTaskRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Name.encode(e, "name")
	r.Position.encode(e, "position")
	r.IsCompleted.encode(e, "isCompleted")
	e.ObjEnd()
}

// GetTasks lists the tasks of a card.
func (c *Client) GetTasks(ctx context.Context, cardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/cards/%s/tasks", cardID), nil)
}

// CreateTask creates a task on req.CardID.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/cards/%s/tasks", req.CardID), req)
}

// BatchCreateTasks creates tasks one after another in order. The first
// failure stops the batch; tasks already created stay.
func (c *Client) BatchCreateTasks(ctx context.Context, reqs []CreateTaskRequest) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(reqs))
	for i, req := range reqs {
		raw, err := c.CreateTask(ctx, req)
		if err != nil {
			return nil, errors.Wrapf(err, "create task %d of %d", i+1, len(reqs))
		}
		out = append(out, raw)
	}
	return out, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/tasks/%s", id), nil)
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/tasks/%s", id), req)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/tasks/%s", id), nil)
}

// =============================================================================
// Comments
// =============================================================================

type commentRequest struct {
	CardID string
	Text   string
}

func (r commentRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	if r.CardID != "" {
		e.FieldStart("cardId")
		e.Str(r.CardID)
	}
	e.FieldStart("text")
	e.Str(r.Text)
	e.ObjEnd()
}

// GetComments lists the comments of a card.
func (c *Client) GetComments(ctx context.Context, cardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/cards/%s/comments", cardID), nil)
}

// CreateComment adds a comment to a card.
func (c *Client) CreateComment(ctx context.Context, cardID, text string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/cards/%s/comments", cardID), commentRequest{CardID: cardID, Text: text})
}

// GetComment returns one comment.
func (c *Client) GetComment(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/comments/%s", id), nil)
}

// UpdateComment replaces the text of a comment.
func (c *Client) UpdateComment(ctx context.Context, id, text string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/comments/%s", id), commentRequest{Text: text})
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/comments/%s", id), nil)
}
