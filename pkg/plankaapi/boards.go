package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/jx"
)

// =============================================================================
// Projects
// =============================================================================

// GetProjects lists projects one page at a time.
func (c *Client) GetProjects(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	p, err := c.Do(ctx, "/api/projects", RequestOptions{Query: q})
	if err != nil {
		return nil, err
	}
	return p.Raw(), nil
}

// GetProject returns one project.
func (c *Client) GetProject(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/projects/%s", id), nil)
}

// =============================================================================
// Boards
// =============================================================================

// CreateBoardRequest is the body of a board create.
type CreateBoardRequest struct {
	ProjectID string
	Name      string
	Position  float64
	Type      OptString
}

func (r CreateBoardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("projectId")
	e.Str(r.ProjectID)
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("position")
	e.Float64(r.Position)
	r.Type.encode(e, "type")
	e.ObjEnd()
}

// UpdateBoardRequest is a partial board update.
type UpdateBoardRequest struct {
	Name     OptString
	Position OptFloat64
	Type     OptString
}

func (r UpdateBoardRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Name.encode(e, "name")
	r.Position.encode(e, "position")
	r.Type.encode(e, "type")
	e.ObjEnd()
}

// GetBoards lists the boards of a project.
func (c *Client) GetBoards(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/projects/%s/boards", projectID), nil)
}

// CreateBoard creates a board in req.ProjectID.
func (c *Client) CreateBoard(ctx context.Context, req CreateBoardRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/projects/%s/boards", req.ProjectID), req)
}

// GetBoard returns one board.
func (c *Client) GetBoard(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/boards/%s", id), nil)
}

// UpdateBoard applies a partial update to a board.
func (c *Client) UpdateBoard(ctx context.Context, id string, req UpdateBoardRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/boards/%s", id), req)
}

// DeleteBoard deletes a board.
func (c *Client) DeleteBoard(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/boards/%s", id), nil)
}

// =============================================================================
// Lists
// =============================================================================

// CreateListRequest is the body of a list create.
type CreateListRequest struct {
	BoardID  string
	Name     string
	Position float64
}

func (r CreateListRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("boardId")
	e.Str(r.BoardID)
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("position")
	e.Float64(r.Position)
	e.ObjEnd()
}

// UpdateListRequest is a partial list update.
type UpdateListRequest struct {
	Name     OptString
	Position OptFloat64
}

func (r UpdateListRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	r.Name.encode(e, "name")
	r.Position.encode(e, "position")
	e.ObjEnd()
}

// GetLists lists the lists of a board.
func (c *Client) GetLists(ctx context.Context, boardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/boards/%s/lists", boardID), nil)
}

// CreateList creates a list on req.BoardID.
func (c *Client) CreateList(ctx context.Context, req CreateListRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, pathf("/api/boards/%s/lists", req.BoardID), req)
}

// GetList returns one list.
func (c *Client) GetList(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, pathf("/api/lists/%s", id), nil)
}

// UpdateList applies a partial update to a list.
func (c *Client) UpdateList(ctx context.Context, id string, req UpdateListRequest) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/lists/%s", id), req)
}

// DeleteList deletes a list.
func (c *Client) DeleteList(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, pathf("/api/lists/%s", id), nil)
}
