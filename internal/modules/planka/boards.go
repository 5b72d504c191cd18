package planka

import (
	"context"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// =============================================================================
// mcp_kanban_project_board_manager
// =============================================================================

var projectBoardActions = actionSet{
	"get_projects":      getProjects,
	"get_project":       getProject,
	"get_boards":        getBoards,
	"create_board":      createBoard,
	"get_board":         getBoard,
	"update_board":      updateBoard,
	"delete_board":      deleteBoard,
	"get_board_summary": getBoardSummary,
}

func getProjects(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_projects", "page", "perPage"); err != nil {
		return nil, err
	}
	page, perPage := int(num(params, "page")), int(num(params, "perPage"))
	if page < 1 || perPage < 1 {
		return nil, modules.Validation("page and perPage must be positive")
	}
	return c.GetProjects(ctx, page, perPage)
}

func getProject(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_project", "id"); err != nil {
		return nil, err
	}
	return c.GetProject(ctx, str(params, "id"))
}

func getBoards(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_boards", "projectId"); err != nil {
		return nil, err
	}
	return c.GetBoards(ctx, str(params, "projectId"))
}

func createBoard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create_board", "projectId", "name", "position"); err != nil {
		return nil, err
	}
	return c.CreateBoard(ctx, plankaapi.CreateBoardRequest{
		ProjectID: str(params, "projectId"),
		Name:      str(params, "name"),
		Position:  num(params, "position"),
	})
}

func getBoard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_board", "id"); err != nil {
		return nil, err
	}
	return c.GetBoard(ctx, str(params, "id"))
}

func updateBoard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update_board", "id", "name", "position"); err != nil {
		return nil, err
	}
	req := plankaapi.UpdateBoardRequest{
		Name:     optString(params, "name"),
		Position: optFloat(params, "position"),
	}
	// An empty type is left out rather than sent.
	if t := str(params, "type"); t != "" {
		req.Type.SetTo(t)
	}
	return c.UpdateBoard(ctx, str(params, "id"), req)
}

func deleteBoard(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete_board", "id"); err != nil {
		return nil, err
	}
	return c.DeleteBoard(ctx, str(params, "id"))
}

func getBoardSummary(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_board_summary", "boardId"); err != nil {
		return nil, err
	}
	return c.GetBoardSummary(ctx, plankaapi.BoardSummaryOptions{
		BoardID:            str(params, "boardId"),
		IncludeTaskDetails: flag(params, "includeTaskDetails"),
		IncludeComments:    flag(params, "includeComments"),
	})
}

// =============================================================================
// mcp_kanban_list_manager
// =============================================================================

var listActions = actionSet{
	"get_all": getLists,
	"create":  createList,
	"get_one": getList,
	"update":  updateList,
	"delete":  deleteList,
}

func getLists(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "boardId"); err != nil {
		return nil, err
	}
	return c.GetLists(ctx, str(params, "boardId"))
}

func createList(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "create", "boardId", "name", "position"); err != nil {
		return nil, err
	}
	return c.CreateList(ctx, plankaapi.CreateListRequest{
		BoardID:  str(params, "boardId"),
		Name:     str(params, "name"),
		Position: num(params, "position"),
	})
}

func getList(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_one", "id"); err != nil {
		return nil, err
	}
	return c.GetList(ctx, str(params, "id"))
}

func updateList(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id", "name", "position"); err != nil {
		return nil, err
	}
	return c.UpdateList(ctx, str(params, "id"), plankaapi.UpdateListRequest{
		Name:     optString(params, "name"),
		Position: optFloat(params, "position"),
	})
}

func deleteList(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteList(ctx, str(params, "id"))
}
