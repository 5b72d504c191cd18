package plankaapi

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"
)

// Composite operations combine several requests. None of them roll back:
// when a later step fails, records created by earlier steps remain.

// positionStep is the gap Planka leaves between consecutive positions.
const positionStep = 65535

// CreateCardWithTasksRequest describes a card plus its initial tasks and an
// optional first comment.
type CreateCardWithTasksRequest struct {
	ListID      string
	Name        string
	Description OptString
	Position    OptFloat64
	Tasks       []string
	Comment     OptString
}

// CardWithTasks is the result of CreateCardWithTasks.
type CardWithTasks struct {
	Card    json.RawMessage   `json:"card"`
	Tasks   []json.RawMessage `json:"tasks,omitempty"`
	Comment json.RawMessage   `json:"comment,omitempty"`
}

// CreateCardWithTasks creates the card, then each task in input order, then
// the comment.
func (c *Client) CreateCardWithTasks(ctx context.Context, req CreateCardWithTasksRequest) (*CardWithTasks, error) {
	raw, err := c.CreateCard(ctx, CreateCardRequest{
		ListID:      req.ListID,
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position.Or(positionStep),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create card")
	}
	card, err := itemOf(raw)
	if err != nil {
		return nil, err
	}
	cardID, err := idOf(card)
	if err != nil {
		return nil, errors.Wrap(err, "created card")
	}

	out := &CardWithTasks{Card: card}
	for i, name := range req.Tasks {
		raw, err := c.CreateTask(ctx, CreateTaskRequest{
			CardID:   cardID,
			Name:     name,
			Position: NewOptFloat64(float64((i + 1) * positionStep)),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "create task %q", name)
		}
		task, err := itemOf(raw)
		if err != nil {
			return nil, err
		}
		out.Tasks = append(out.Tasks, task)
	}

	if text, ok := req.Comment.Get(); ok && text != "" {
		raw, err := c.CreateComment(ctx, cardID, text)
		if err != nil {
			return nil, errors.Wrap(err, "create comment")
		}
		if out.Comment, err = itemOf(raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CardDetails is a card with its tasks, comments and label associations.
type CardDetails struct {
	Card     json.RawMessage   `json:"card"`
	Tasks    []json.RawMessage `json:"tasks"`
	Comments []json.RawMessage `json:"comments"`
	Labels   []json.RawMessage `json:"labels"`
}

// GetCardDetails fetches the card, then its tasks, comments and labels
// concurrently. Any failure fails the whole call.
func (c *Client) GetCardDetails(ctx context.Context, cardID string) (*CardDetails, error) {
	raw, err := c.GetCard(ctx, cardID)
	if err != nil {
		return nil, errors.Wrap(err, "get card")
	}
	card, err := itemOf(raw)
	if err != nil {
		return nil, err
	}

	d := &CardDetails{Card: card}
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(dst *[]json.RawMessage, what string, get func(context.Context, string) (json.RawMessage, error)) {
		g.Go(func() error {
			items, err := c.collect(gctx, get, cardID)
			if err != nil {
				return errors.Wrapf(err, "get %s", what)
			}
			*dst = items
			return nil
		})
	}
	fetch(&d.Tasks, "tasks", c.GetTasks)
	fetch(&d.Comments, "comments", c.GetComments)
	fetch(&d.Labels, "labels", c.GetCardLabels)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// BoardSummaryOptions selects what GetBoardSummary fetches per card.
type BoardSummaryOptions struct {
	BoardID            string
	IncludeTaskDetails bool
	IncludeComments    bool
}

// BoardSummary is a board with its lists and cards.
type BoardSummary struct {
	Board json.RawMessage `json:"board"`
	Lists []ListSummary   `json:"lists"`
	Stats BoardStats      `json:"stats"`
}

// ListSummary is one list of a BoardSummary.
type ListSummary struct {
	List  json.RawMessage `json:"list"`
	Cards []CardSummary   `json:"cards"`
}

// CardSummary is one card of a ListSummary. Tasks and Comments are nil
// unless requested; a requested but empty collection is a non-nil empty
// slice and still encodes as [].
type CardSummary struct {
	Card     json.RawMessage
	Tasks    []json.RawMessage
	Comments []json.RawMessage
}

// MarshalJSON leaves out collections that were not requested.
func (s CardSummary) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("card")
	encodeRaw(&e, s.Card)
	for _, f := range []struct {
		name  string
		items []json.RawMessage
	}{{"tasks", s.Tasks}, {"comments", s.Comments}} {
		if f.items == nil {
			continue
		}
		e.FieldStart(f.name)
		e.ArrStart()
		for _, item := range f.items {
			encodeRaw(&e, item)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
	return e.Bytes(), nil
}

func encodeRaw(e *jx.Encoder, v json.RawMessage) {
	if len(v) == 0 {
		e.Null()
		return
	}
	e.Raw(v)
}

// BoardStats counts what a summary covered. Task counts are zero unless
// task details were requested.
type BoardStats struct {
	Lists          int `json:"lists"`
	Cards          int `json:"cards"`
	Tasks          int `json:"tasks"`
	CompletedTasks int `json:"completedTasks"`
}

// GetBoardSummary fetches the board, its lists and each list's cards in
// order. Tasks and comments are fetched per card only when requested.
func (c *Client) GetBoardSummary(ctx context.Context, opts BoardSummaryOptions) (*BoardSummary, error) {
	raw, err := c.GetBoard(ctx, opts.BoardID)
	if err != nil {
		return nil, errors.Wrap(err, "get board")
	}
	board, err := itemOf(raw)
	if err != nil {
		return nil, err
	}

	lists, err := c.collect(ctx, c.GetLists, opts.BoardID)
	if err != nil {
		return nil, errors.Wrap(err, "get lists")
	}

	s := &BoardSummary{Board: board, Lists: make([]ListSummary, 0, len(lists))}
	for _, list := range lists {
		listID, err := idOf(list)
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}
		cards, err := c.collect(ctx, c.GetCards, listID)
		if err != nil {
			return nil, errors.Wrapf(err, "get cards of list %s", listID)
		}

		ls := ListSummary{List: list, Cards: make([]CardSummary, 0, len(cards))}
		for _, card := range cards {
			cs := CardSummary{Card: card}
			if opts.IncludeTaskDetails || opts.IncludeComments {
				cardID, err := idOf(card)
				if err != nil {
					return nil, errors.Wrap(err, "card")
				}
				if opts.IncludeTaskDetails {
					if cs.Tasks, err = c.collect(ctx, c.GetTasks, cardID); err != nil {
						return nil, errors.Wrapf(err, "get tasks of card %s", cardID)
					}
					if cs.Tasks == nil {
						cs.Tasks = []json.RawMessage{}
					}
					if err := s.Stats.countTasks(cs.Tasks); err != nil {
						return nil, err
					}
				}
				if opts.IncludeComments {
					if cs.Comments, err = c.collect(ctx, c.GetComments, cardID); err != nil {
						return nil, errors.Wrapf(err, "get comments of card %s", cardID)
					}
					if cs.Comments == nil {
						cs.Comments = []json.RawMessage{}
					}
				}
			}
			ls.Cards = append(ls.Cards, cs)
		}
		s.Stats.Cards += len(cards)
		s.Lists = append(s.Lists, ls)
	}
	s.Stats.Lists = len(lists)
	return s, nil
}

func (st *BoardStats) countTasks(tasks []json.RawMessage) error {
	st.Tasks += len(tasks)
	for _, task := range tasks {
		done, err := boolField(task, "isCompleted")
		if err != nil {
			return err
		}
		if done {
			st.CompletedTasks++
		}
	}
	return nil
}

// collect runs a collection read and unwraps its items.
func (c *Client) collect(ctx context.Context, get func(context.Context, string) (json.RawMessage, error), id string) ([]json.RawMessage, error) {
	raw, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemsOf(raw)
}
