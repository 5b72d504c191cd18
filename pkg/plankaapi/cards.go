package plankaapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// CreateCardRequest is the body of a card create.
type CreateCardRequest struct {
	ListID      string
	Name        string
	Description OptString
	Position    float64
	DueDate     OptString
}

func (r CreateCardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("listId")
	e.Str(r.ListID)
	e.FieldStart("name")
	e.Str(r.Name)
	r.Description.encode(e, "description")
	e.FieldStart("position")
	e.Float64(r.Position)
	r.DueDate.encode(e, "dueDate")
	e.ObjEnd()
}

// UpdateCardRequest is a partial card update. Description and DueDate can be
// cleared with SetToNull.
type UpdateCardRequest struct {
	Name        OptString
	Description OptNilString
	Position    OptFloat64
	DueDate     OptNilString
	IsCompleted OptBool
}

func (r UpdateCardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Name.encode(e, "name")
	r.Description.encode(e, "description")
	r.Position.encode(e, "position")
	r.DueDate.encode(e, "dueDate")
	r.IsCompleted.encode(e, "isCompleted")
	e.ObjEnd()
}

// MoveCardRequest relocates a card. BoardID and ProjectID are only sent
// when set.
type MoveCardRequest struct {
	ListID    string
	Position  float64
	BoardID   OptString
	ProjectID OptString
}

func (r MoveCardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("listId")
	e.Str(r.ListID)
	e.FieldStart("position")
	e.Float64(r.Position)
	r.BoardID.encode(e, "boardId")
	r.ProjectID.encode(e, "projectId")
	e.ObjEnd()
}

type duplicateCardRequest struct {
	Position float64
}

func (r duplicateCardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("position")
	e.Float64(r.Position)
	e.ObjEnd()
}

// GetCards lists the cards of a list.
func (c *Client) GetCards(ctx context.Context, listID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/lists/%s/cards", listID), nil)
}

// CreateCard creates a card in req.ListID.
func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/lists/%s/cards", req.ListID), req)
}

// GetCard returns one card.
func (c *Client) GetCard(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/cards/%s", id), nil)
}

// UpdateCard applies a partial update to a card.
func (c *Client) UpdateCard(ctx context.Context, id string, req UpdateCardRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/cards/%s", id), req)
}

// MoveCard moves a card to another list, and optionally board or project,
// in a single update.
func (c *Client) MoveCard(ctx context.Context, id string, req MoveCardRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/cards/%s", id), req)
}

// DuplicateCard copies a card into the same list at position.
func (c *Client) DuplicateCard(ctx context.Context, id string, position float64) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/cards/%s/duplicate", id), duplicateCardRequest{Position: position})
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/cards/%s", id), nil)
}

// CreateAttachment uploads content as a file attached to a card.
func (c *Client) CreateAttachment(ctx context.Context, cardID, fileName string, content io.Reader) (json.RawMessage, error) {
	form := NewForm()
	if err := form.AddField("name", fileName); err != nil {
		return nil, errors.Wrap(err, "build attachment form")
	}
	if err := form.AddFile("file", fileName, content); err != nil {
		return nil, errors.Wrap(err, "build attachment form")
	}
	return c.call(ctx, http.MethodPost, pathf("/api/cards/%s/attachments", cardID), form)
}
