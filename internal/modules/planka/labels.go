package planka

import (
	"context"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// =============================================================================
// mcp_kanban_label_manager
// =============================================================================

var labelActions = actionSet{
	"get_all":          getLabels,
	"create":           createLabel,
	"update":           updateLabel,
	"delete":           deleteLabel,
	"add_to_card":      addLabelToCard,
	"remove_from_card": removeLabelFromCard,
}

func getLabels(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "boardId"); err != nil {
		return nil, err
	}
	return c.GetLabels(ctx, str(params, "boardId"))
}

func createLabel(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create", "boardId", "name", "color", "position"); err != nil {
		return nil, err
	}
	color := str(params, "color")
	if !plankaapi.IsLabelColor(color) {
		return nil, modules.Validation("unknown label color: %s", color)
	}
	return c.CreateLabel(ctx, plankaapi.CreateLabelRequest{
		BoardID:  str(params, "boardId"),
		Name:     str(params, "name"),
		Color:    color,
		Position: num(params, "position"),
	})
}

func updateLabel(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id", "name", "color", "position"); err != nil {
		return nil, err
	}
	color := str(params, "color")
	if !plankaapi.IsLabelColor(color) {
		return nil, modules.Validation("unknown label color: %s", color)
	}
	return c.UpdateLabel(ctx, str(params, "id"), plankaapi.UpdateLabelRequest{
		Name:     optString(params, "name"),
		Color:    optString(params, "color"),
		Position: optFloat(params, "position"),
	})
}

func deleteLabel(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteLabel(ctx, str(params, "id"))
}

func addLabelToCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "add_to_card", "cardId", "labelId"); err != nil {
		return nil, err
	}
	return c.AddLabelToCard(ctx, str(params, "cardId"), str(params, "labelId"))
}

func removeLabelFromCard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "remove_from_card", "cardId", "labelId"); err != nil {
		return nil, err
	}
	return c.RemoveLabelFromCard(ctx, str(params, "cardId"), str(params, "labelId"))
}
