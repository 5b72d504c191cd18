package planka

import (
	"bytes"
	"context"
	"encoding/base64"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// =============================================================================
// mcp_kanban_card_manager
// =============================================================================

var cardActions = actionSet{
	"get_all":           getCards,
	"create":            createCard,
	"get_one":           getCard,
	"update":            updateCard,
	"move":              moveCard,
	"duplicate":         duplicateCard,
	"delete":            deleteCard,
	"create_with_tasks": createCardWithTasks,
	"get_details":       getCardDetails,
	"add_attachment":    addAttachment,
}

func getCards(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "listId"); err != nil {
		return nil, err
	}
	return c.GetCards(ctx, str(params, "listId"))
}

func createCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create", "listId", "name"); err != nil {
		return nil, err
	}
	return c.CreateCard(ctx, plankaapi.CreateCardRequest{
		ListID:      str(params, "listId"),
		Name:        str(params, "name"),
		Description: optString(params, "description"),
		Position:    num(params, "position"),
		DueDate:     optString(params, "dueDate"),
	})
}

func getCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_one", "id"); err != nil {
		return nil, err
	}
	return c.GetCard(ctx, str(params, "id"))
}

// updateCard sends only the fields present in params. A null description or
// dueDate clears it.
func updateCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id"); err != nil {
		return nil, err
	}
	return c.UpdateCard(ctx, str(params, "id"), plankaapi.UpdateCardRequest{
		Name:        optString(params, "name"),
		Description: optNilString(params, "description"),
		Position:    optFloat(params, "position"),
		DueDate:     optNilString(params, "dueDate"),
		IsCompleted: optBool(params, "isCompleted"),
	})
}

func moveCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "move", "id", "listId", "position"); err != nil {
		return nil, err
	}
	return c.MoveCard(ctx, str(params, "id"), plankaapi.MoveCardRequest{
		ListID:    str(params, "listId"),
		Position:  num(params, "position"),
		BoardID:   optString(params, "boardId"),
		ProjectID: optString(params, "projectId"),
	})
}

func duplicateCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "duplicate", "id", "position"); err != nil {
		return nil, err
	}
	return c.DuplicateCard(ctx, str(params, "id"), num(params, "position"))
}

func deleteCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteCard(ctx, str(params, "id"))
}

func createCardWithTasks(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create_with_tasks", "listId", "name"); err != nil {
		return nil, err
	}
	req := plankaapi.CreateCardWithTasksRequest{
		ListID:      str(params, "listId"),
		Name:        str(params, "name"),
		Description: optString(params, "description"),
		Position:    optFloat(params, "position"),
	}
	if tasks, ok := params["tasks"].([]interface{}); ok {
		req.Tasks = toStringSlice(tasks)
	}
	if comment := str(params, "comment"); comment != "" {
		req.Comment.SetTo(comment)
	}
	return c.CreateCardWithTasks(ctx, req)
}

func getCardDetails(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_details", "cardId"); err != nil {
		return nil, err
	}
	return c.GetCardDetails(ctx, str(params, "cardId"))
}

// addAttachment uploads base64 content as a file on the card.
func addAttachment(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "add_attachment", "id", "fileName", "content"); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(str(params, "content"))
	if err != nil {
		return nil, modules.Validation("content must be base64 encoded: %v", err)
	}
	return c.CreateAttachment(ctx, str(params, "id"), str(params, "fileName"), bytes.NewReader(data))
}

// =============================================================================
// mcp_kanban_stopwatch
// =============================================================================

var stopwatchActions = actionSet{
	"start": startStopwatch,
	"stop":  stopStopwatch,
	"get":   getStopwatch,
	"reset": resetStopwatch,
}

func startStopwatch(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "start", "id"); err != nil {
		return nil, err
	}
	return c.StartCardStopwatch(ctx, str(params, "id"))
}

func stopStopwatch(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "stop", "id"); err != nil {
		return nil, err
	}
	return c.StopCardStopwatch(ctx, str(params, "id"))
}

func getStopwatch(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get", "id"); err != nil {
		return nil, err
	}
	return c.GetCardStopwatch(ctx, str(params, "id"))
}

func resetStopwatch(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "reset", "id"); err != nil {
		return nil, err
	}
	return c.ResetCardStopwatch(ctx, str(params, "id"))
}
