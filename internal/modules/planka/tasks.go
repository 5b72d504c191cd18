package planka

import (
	"context"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// =============================================================================
// mcp_kanban_task_manager
// =============================================================================

var taskActions = actionSet{
	"get_all":       getTasks,
	"create":        createTask,
	"batch_create":  batchCreateTasks,
	"get_one":       getTask,
	"update":        updateTask,
	"delete":        deleteTask,
	"complete_task": completeTask,
}

func getTasks(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "cardId"); err != nil {
		return nil, err
	}
	return c.GetTasks(ctx, str(params, "cardId"))
}

func createTask(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create", "cardId", "name"); err != nil {
		return nil, err
	}
	return c.CreateTask(ctx, plankaapi.CreateTaskRequest{
		CardID:   str(params, "cardId"),
		Name:     str(params, "name"),
		Position: optFloat(params, "position"),
	})
}

// batchCreateTasks creates tasks in order and stops at the first failure.
func batchCreateTasks(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	items, _ := params["tasks"].([]interface{})
	if len(items) == 0 {
		return nil, modules.Validation("tasks array is required for batch_create action")
	}
	reqs := make([]plankaapi.CreateTaskRequest, 0, len(items))
	for i, item := range items {
		task, _ := item.(map[string]interface{})
		if !modules.Present(task, "cardId") || !modules.Present(task, "name") {
			return nil, modules.Validation("tasks[%d]: cardId and name are required", i)
		}
		reqs = append(reqs, plankaapi.CreateTaskRequest{
			CardID:   str(task, "cardId"),
			Name:     str(task, "name"),
			Position: optFloat(task, "position"),
		})
	}
	created, err := c.BatchCreateTasks(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return map[string]any{"tasks": created}, nil
}

func getTask(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_one", "id"); err != nil {
		return nil, err
	}
	return c.GetTask(ctx, str(params, "id"))
}

func updateTask(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id"); err != nil {
		return nil, err
	}
	return c.UpdateTask(ctx, str(params, "id"), plankaapi.UpdateTaskRequest{
		Name:        optString(params, "name"),
		Position:    optFloat(params, "position"),
		IsCompleted: optBool(params, "isCompleted"),
	})
}

func completeTask(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "complete_task", "id"); err != nil {
		return nil, err
	}
	return c.UpdateTask(ctx, str(params, "id"), plankaapi.UpdateTaskRequest{
		IsCompleted: plankaapi.NewOptBool(true),
	})
}

func deleteTask(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteTask(ctx, str(params, "id"))
}

// =============================================================================
// mcp_kanban_comment_manager
// =============================================================================

var commentActions = actionSet{
	"get_all": getComments,
	"create":  createComment,
	"get_one": getComment,
	"update":  updateComment,
	"delete":  deleteComment,
}

func getComments(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "cardId"); err != nil {
		return nil, err
	}
	return c.GetComments(ctx, str(params, "cardId"))
}

func createComment(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create", "cardId", "text"); err != nil {
		return nil, err
	}
	return c.CreateComment(ctx, str(params, "cardId"), str(params, "text"))
}

func getComment(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_one", "id"); err != nil {
		return nil, err
	}
	return c.GetComment(ctx, str(params, "id"))
}

func updateComment(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id", "text"); err != nil {
		return nil, err
	}
	return c.UpdateComment(ctx, str(params, "id"), str(params, "text"))
}

func deleteComment(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteComment(ctx, str(params, "id"))
}
