package planka

import (
	"context"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

// =============================================================================
// mcp_kanban_membership_manager
// =============================================================================

var membershipActions = actionSet{
	"get_all": getMemberships,
	"create":  createMembership,
	"get_one": getMembership,
	"update":  updateMembership,
	"delete":  deleteMembership,
}

func getMemberships(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_all", "boardId"); err != nil {
		return nil, err
	}
	return c.GetBoardMemberships(ctx, str(params, "boardId"))
}

func createMembership(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	hasUser := modules.Present(params, "userId") || modules.Present(params, "userEmail") || modules.Present(params, "username")
	if !hasUser || !modules.Present(params, "boardId") || !modules.Present(params, "role") {
		return nil, modules.Validation("boardId, userId, and role are required for create action")
	}
	userID, err := resolveUserID(ctx, c, params)
	if err != nil {
		return nil, err
	}
	return c.CreateBoardMembership(ctx, plankaapi.CreateBoardMembershipRequest{
		BoardID: str(params, "boardId"),
		UserID:  userID,
		Role:    str(params, "role"),
	})
}

// resolveUserID prefers userId, then userEmail, then username.
func resolveUserID(ctx context.Context, c *plankaapi.Client, params map[string]any) (string, error) {
	if id := str(params, "userId"); id != "" {
		return id, nil
	}

	var (
		user  plankaapi.User
		found bool
		err   error
		key   string
	)
	if email := str(params, "userEmail"); email != "" {
		key = email
		user, found, err = c.FindUserByEmail(ctx, email)
	} else {
		key = str(params, "username")
		user, found, err = c.FindUserByUsername(ctx, key)
	}
	if err != nil {
		return "", err
	}
	if !found {
		return "", modules.NotFound("no Planka user matches %q", key)
	}
	return user.ID, nil
}

func getMembership(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "get_one", "id"); err != nil {
		return nil, err
	}
	return c.GetBoardMembership(ctx, str(params, "id"))
}

func updateMembership(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "update", "id"); err != nil {
		return nil, err
	}
	return c.UpdateBoardMembership(ctx, str(params, "id"), plankaapi.UpdateBoardMembershipRequest{
		Role:       optString(params, "role"),
		CanComment: optBool(params, "canComment"),
	})
}

func deleteMembership(ctx context.Context, c *plankaapi.Client, params map[string]any) (any, error) {
	if err := require(params, "delete", "id"); err != nil {
		return nil, err
	}
	return c.DeleteBoardMembership(ctx, str(params, "id"))
}
