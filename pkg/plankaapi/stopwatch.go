package plankaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// A card's stopwatch is stored on the card as
// {"startedAt": <RFC 3339 or null>, "total": <seconds>}. A non-null
// startedAt means it is running.

// Stopwatch is the computed state of a card's stopwatch.
type Stopwatch struct {
	CardID    string     `json:"cardId"`
	IsRunning bool       `json:"isRunning"`
	StartedAt *time.Time `json:"startedAt"`
	// Total is the accumulated seconds, excluding a running segment.
	Total int64 `json:"total"`
	// Current is Total plus the running segment, if any.
	Current   int64  `json:"current"`
	Formatted string `json:"formatted"`
}

type stopwatchState struct {
	StartedAt *time.Time `json:"startedAt"`
	Total     float64    `json:"total"`
}

type stopwatchPatch struct {
	state *stopwatchState
}

func (r stopwatchPatch) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("stopwatch")
	if r.state == nil {
		e.Null()
	} else {
		e.ObjStart()
		e.FieldStart("startedAt")
		if r.state.StartedAt == nil {
			e.Null()
		} else {
			e.Str(r.state.StartedAt.UTC().Format(time.RFC3339))
		}
		e.FieldStart("total")
		e.Int64(int64(r.state.Total))
		e.ObjEnd()
	}
	e.ObjEnd()
}

func (c *Client) cardStopwatch(ctx context.Context, cardID string) (json.RawMessage, *stopwatchState, error) {
	raw, err := c.GetCard(ctx, cardID)
	if err != nil {
		return nil, nil, err
	}
	card, err := itemOf(raw)
	if err != nil {
		return nil, nil, err
	}
	var fields struct {
		Stopwatch *stopwatchState `json:"stopwatch"`
	}
	if err := json.Unmarshal(card, &fields); err != nil {
		return nil, nil, errors.Wrap(err, "decode card stopwatch")
	}
	return raw, fields.Stopwatch, nil
}

// GetCardStopwatch reports the stopwatch of a card.
func (c *Client) GetCardStopwatch(ctx context.Context, cardID string) (*Stopwatch, error) {
	_, state, err := c.cardStopwatch(ctx, cardID)
	if err != nil {
		return nil, err
	}
	sw := &Stopwatch{CardID: cardID}
	if state != nil {
		sw.Total = int64(state.Total)
		sw.Current = sw.Total
		if state.StartedAt != nil {
			sw.IsRunning = true
			sw.StartedAt = state.StartedAt
			if elapsed := c.now().Sub(*state.StartedAt); elapsed > 0 {
				sw.Current += int64(elapsed / time.Second)
			}
		}
	}
	sw.Formatted = formatDuration(sw.Current)
	return sw, nil
}

// StartCardStopwatch starts the stopwatch, keeping the accumulated total.
// A running stopwatch is left alone and the card is returned unchanged.
func (c *Client) StartCardStopwatch(ctx context.Context, cardID string) (json.RawMessage, error) {
	raw, state, err := c.cardStopwatch(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if state != nil && state.StartedAt != nil {
		return raw, nil
	}
	now := c.now()
	next := &stopwatchState{StartedAt: &now}
	if state != nil {
		next.Total = state.Total
	}
	return c.call(ctx, http.MethodPatch, pathf("/api/cards/%s", cardID), stopwatchPatch{state: next})
}

// StopCardStopwatch folds the running segment into the total. A stopped
// stopwatch is left alone.
func (c *Client) StopCardStopwatch(ctx context.Context, cardID string) (json.RawMessage, error) {
	raw, state, err := c.cardStopwatch(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.StartedAt == nil {
		return raw, nil
	}
	total := state.Total
	if elapsed := c.now().Sub(*state.StartedAt); elapsed > 0 {
		total += float64(elapsed / time.Second)
	}
	return c.call(ctx, http.MethodPatch, pathf("/api/cards/%s", cardID), stopwatchPatch{state: &stopwatchState{Total: total}})
}

// ResetCardStopwatch removes the stopwatch from a card.
func (c *Client) ResetCardStopwatch(ctx context.Context, cardID string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPatch, pathf("/api/cards/%s", cardID), stopwatchPatch{})
}

func formatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
