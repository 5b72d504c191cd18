package planka

import (
	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

const (
	toolProjectBoard = "mcp_kanban_project_board_manager"
	toolList         = "mcp_kanban_list_manager"
	toolCard         = "mcp_kanban_card_manager"
	toolStopwatch    = "mcp_kanban_stopwatch"
	toolLabel        = "mcp_kanban_label_manager"
	toolTask         = "mcp_kanban_task_manager"
	toolComment      = "mcp_kanban_comment_manager"
	toolMembership   = "mcp_kanban_membership_manager"
)

func actionProperty(actions ...string) modules.Property {
	return modules.Property{Type: "string", Description: "The action to perform", Enum: actions}
}

func stringProp(desc string) modules.Property {
	return modules.Property{Type: "string", Description: desc}
}

func numberProp(desc string) modules.Property {
	return modules.Property{Type: "number", Description: desc}
}

func boolProp(desc string) modules.Property {
	return modules.Property{Type: "boolean", Description: desc}
}

var (
	// Manager tools can delete.
	manageHints    = modules.Hints(false, true, false)
	stopwatchHints = modules.Hints(false, false, true)
)

// =============================================================================
// Tool Definitions
// =============================================================================

var toolDefinitions = []modules.Tool{
	{
		Name: toolProjectBoard,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage projects and boards with various operations",
			"ja-JP": "プロジェクトとボードを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action": actionProperty("get_projects", "get_project", "get_boards", "create_board",
					"get_board", "update_board", "delete_board", "get_board_summary"),
				"id":        stringProp("The ID of the project or board"),
				"projectId": stringProp("The ID of the project"),
				"name":      stringProp("The name of the board"),
				"position":  numberProp("The position of the board"),
				"type":      stringProp("The type of the board"),
				"page":      numberProp("The page number for pagination (1-indexed)"),
				"perPage":   numberProp("The number of items per page"),
				"boardId":   stringProp("The ID of the board to get a summary for"),
				"includeTaskDetails": {
					Type:        "boolean",
					Description: "Whether to include detailed task information for each card",
					Default:     false,
				},
				"includeComments": {
					Type:        "boolean",
					Description: "Whether to include comments for each card",
					Default:     false,
				},
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolList,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage kanban lists with various operations",
			"ja-JP": "カンバンのリストを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action":   actionProperty("get_all", "create", "update", "delete", "get_one"),
				"id":       stringProp("The ID of the list"),
				"boardId":  stringProp("The ID of the board"),
				"name":     stringProp("The name of the list"),
				"position": numberProp("The position of the list"),
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolCard,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage kanban cards with various operations",
			"ja-JP": "カンバンのカードを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action": actionProperty("get_all", "create", "get_one", "update", "move", "duplicate",
					"delete", "create_with_tasks", "get_details", "add_attachment"),
				"id":          stringProp("The ID of the card"),
				"listId":      stringProp("The ID of the list"),
				"boardId":     stringProp("The ID of the board (if moving between boards)"),
				"projectId":   stringProp("The ID of the project (if moving between projects)"),
				"name":        stringProp("The name of the card"),
				"description": stringProp("The description of the card"),
				"position":    numberProp("The position of the card"),
				"dueDate":     stringProp("The due date for the card (ISO format)"),
				"isCompleted": boolProp("Whether the card is completed"),
				"tasks": {
					Type:        "array",
					Description: "Array of task descriptions to create for create_with_tasks action",
					Items:       &modules.Property{Type: "string"},
				},
				"comment":  stringProp("Optional comment to add to the card"),
				"cardId":   stringProp("The ID of the card to get details for"),
				"fileName": stringProp("The file name of the attachment (add_attachment)"),
				"content":  stringProp("Base64-encoded file content (add_attachment)"),
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolStopwatch,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage card stopwatches for time tracking",
			"ja-JP": "カードのストップウォッチで作業時間を記録します",
		},
		Annotations: stopwatchHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action": actionProperty("start", "stop", "get", "reset"),
				"id":     stringProp("The ID of the card"),
			},
			Required: []string{"action", "id"},
		},
	},
	{
		Name: toolLabel,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage kanban labels with various operations",
			"ja-JP": "カンバンのラベルを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action":  actionProperty("get_all", "create", "update", "delete", "add_to_card", "remove_from_card"),
				"id":      stringProp("The ID of the label"),
				"boardId": stringProp("The ID of the board"),
				"cardId":  stringProp("The ID of the card"),
				"labelId": stringProp("The ID of the label (for card operations)"),
				"name":    stringProp("The name of the label"),
				"color": {
					Type:        "string",
					Description: "The color of the label",
					Enum:        plankaapi.LabelColors,
				},
				"position": numberProp("The position of the label"),
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolTask,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage kanban tasks with various operations",
			"ja-JP": "カードのタスクを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action": actionProperty("get_all", "create", "batch_create", "get_one", "update",
					"delete", "complete_task"),
				"id":          stringProp("The ID of the task"),
				"cardId":      stringProp("The ID of the card"),
				"name":        stringProp("The name of the task"),
				"isCompleted": boolProp("Whether the task is completed"),
				"position":    numberProp("The position of the task"),
				"tasks": {
					Type:        "array",
					Description: "Array of tasks to create in batch",
					Items: &modules.Property{
						Type: "object",
						Properties: map[string]modules.Property{
							"cardId":   stringProp("The ID of the card for this task"),
							"name":     stringProp("The name of this task"),
							"position": numberProp("The position of this task"),
						},
						Required: []string{"cardId", "name"},
					},
				},
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolComment,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage card comments with various operations",
			"ja-JP": "カードのコメントを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action": actionProperty("get_all", "create", "get_one", "update", "delete"),
				"id":     stringProp("The ID of the comment"),
				"cardId": stringProp("The ID of the card"),
				"text":   stringProp("The text content of the comment"),
			},
			Required: []string{"action"},
		},
	},
	{
		Name: toolMembership,
		Descriptions: modules.LocalizedText{
			"en-US": "Manage board memberships with various operations",
			"ja-JP": "ボードのメンバーシップを管理します",
		},
		Annotations: manageHints,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"action":    actionProperty("get_all", "create", "get_one", "update", "delete"),
				"id":        stringProp("The ID of the membership"),
				"boardId":   stringProp("The ID of the board"),
				"userId":    stringProp("The ID of the user"),
				"userEmail": stringProp("Email of the user, resolved to userId when userId is not given"),
				"username":  stringProp("Username of the user, resolved to userId when userId and userEmail are not given"),
				"role": {
					Type:        "string",
					Description: "The role of the user in the board",
					Enum:        []string{plankaapi.RoleEditor, plankaapi.RoleViewer},
				},
				"canComment": boolProp("Whether the user can comment on the board"),
			},
			Required: []string{"action"},
		},
	},
}
