package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
)

// LabelColors is the fixed set of colors Planka accepts for labels.
var LabelColors = []string{
	"berry-red", "pumpkin-orange", "lagoon-blue", "pink-tulip", "light-mud",
	"orange-peel", "bright-moss", "antique-blue", "dark-granite", "lagune-blue",
	"sunny-grass", "morning-sky", "light-orange", "midnight-blue", "tank-green",
	"gun-metal", "wet-moss", "red-burgundy", "light-concrete", "apricot-red",
	"desert-sand", "navy-blue", "egg-yellow", "coral-green", "light-cocoa",
}

// IsLabelColor reports whether color is one of LabelColors.
func IsLabelColor(color string) bool {
	for _, c := range LabelColors {
		if c == color {
			return true
		}
	}
	return false
}

// CreateLabelRequest is the body of a label create.
type CreateLabelRequest struct {
	BoardID  string
	Name     string
	Color    string
	Position float64
}

func (r CreateLabelRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("boardId")
	e.Str(r.BoardID)
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("color")
	e.Str(r.Color)
	e.FieldStart("position")
	e.Float64(r.Position)
	e.ObjEnd()
}

// UpdateLabelRequest is a partial label update.
type UpdateLabelRequest struct {
	Name     OptString
	Color    OptString
	Position OptFloat64
}

func (r UpdateLabelRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Name.encode(e, "name")
	r.Color.encode(e, "color")
	r.Position.encode(e, "position")
	e.ObjEnd()
}

type cardLabelRequest struct {
	LabelID string
}

func (r cardLabelRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("labelId")
	e.Str(r.LabelID)
	e.ObjEnd()
}

// GetLabels lists the labels of a board.
func (c *Client) GetLabels(ctx context.Context, boardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/boards/%s/labels", boardID), nil)
}

// CreateLabel creates a label on req.BoardID.
func (c *Client) CreateLabel(ctx context.Context, req CreateLabelRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/boards/%s/labels", req.BoardID), req)
}

// UpdateLabel applies a partial update to a label.
func (c *Client) UpdateLabel(ctx context.Context, id string, req UpdateLabelRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/labels/%s", id), req)
}

// DeleteLabel deletes a label.
func (c *Client) DeleteLabel(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/labels/%s", id), nil)
}

// GetCardLabels lists the label associations of a card.
func (c *Client) GetCardLabels(ctx context.Context, cardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/cards/%s/labels", cardID), nil)
}

// AddLabelToCard attaches a label to a card.
func (c *Client) AddLabelToCard(ctx context.Context, cardID, labelID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/cards/%s/labels", cardID), cardLabelRequest{LabelID: labelID})
}

// RemoveLabelFromCard detaches a label from a card.
func (c *Client) RemoveLabelFromCard(ctx context.Context, cardID, labelID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/cards/%s/labels/%s", cardID, labelID), nil)
}
