package planka

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"plankamcp/server/internal/modules"
	"plankamcp/server/pkg/plankaapi"
)

type seenRequest struct {
	method string
	path   string
	body   map[string]any
}

// plankaServer answers every route with the configured JSON and records
// what it received. Unknown routes answer 404.
type plankaServer struct {
	mu       sync.Mutex
	routes   map[string]func(body map[string]any) (int, any)
	requests []seenRequest
}

func newPlankaServer(t *testing.T) (*plankaServer, *PlankaModule) {
	t.Helper()
	s := &plankaServer{routes: map[string]func(map[string]any) (int, any){
		"POST /api/access-tokens": func(map[string]any) (int, any) {
			return http.StatusOK, map[string]any{"item": "token"}
		},
	}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		json.Unmarshal(raw, &body)

		s.mu.Lock()
		s.requests = append(s.requests, seenRequest{method: r.Method, path: r.URL.Path, body: body})
		handler, ok := s.routes[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		status, out := http.StatusNotFound, any(map[string]any{"code": "E_NOT_FOUND"})
		if ok {
			status, out = handler(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(srv.Close)

	client := plankaapi.NewClient(plankaapi.Config{
		BaseURL:  srv.URL,
		Email:    "agent@example.com",
		Password: "secret",
	})
	return s, New(client)
}

func (s *plankaServer) on(route string, fn func(body map[string]any) (int, any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[route] = fn
}

// echo answers with {"item": body + id}.
func (s *plankaServer) echo(route, id string) {
	s.on(route, func(body map[string]any) (int, any) {
		item := map[string]any{"id": id}
		for k, v := range body {
			item[k] = v
		}
		return http.StatusOK, map[string]any{"item": item}
	})
}

func (s *plankaServer) seen() []seenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]seenRequest(nil), s.requests...)
}

func (s *plankaServer) last(method, path string) *seenRequest {
	reqs := s.seen()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].method == method && reqs[i].path == path {
			return &reqs[i]
		}
	}
	return nil
}

func run(t *testing.T, m *PlankaModule, tool string, params map[string]any) *modules.ToolCallResult {
	t.Helper()
	modules.RegisterModule(m)
	return modules.Run(context.Background(), m.Name(), tool, params)
}

func decodeText(t *testing.T, res *modules.ToolCallResult) map[string]any {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content[0].Text)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(res.Content[0].Text), &out); err != nil {
		t.Fatalf("result is not a JSON object: %v (%s)", err, res.Content[0].Text)
	}
	return out
}

func TestToolDefinitions(t *testing.T) {
	m := New(nil)
	tools := m.Tools()
	if len(tools) != 8 {
		t.Fatalf("tools = %d, want 8", len(tools))
	}
	for _, tool := range tools {
		if _, ok := toolActions[tool.Name]; !ok {
			t.Errorf("%s has no action handlers", tool.Name)
		}
		enum := tool.InputSchema.Properties["action"].Enum
		if len(enum) != len(toolActions[tool.Name]) {
			t.Errorf("%s: %d actions advertised, %d handled", tool.Name, len(enum), len(toolActions[tool.Name]))
		}
		for _, action := range enum {
			if _, ok := toolActions[tool.Name][action]; !ok {
				t.Errorf("%s: action %s has no handler", tool.Name, action)
			}
		}
		if tool.Descriptions["en-US"] == "" {
			t.Errorf("%s: missing English description", tool.Name)
		}
	}
}

func TestMissingFieldsMakeNoRequests(t *testing.T) {
	tests := []struct {
		tool    string
		params  map[string]any
		wantMsg string
	}{
		{toolProjectBoard, map[string]any{"action": "create_board", "projectId": "p1", "name": "Backlog"}, "projectId, name, and position are required for create_board action"},
		{toolProjectBoard, map[string]any{"action": "get_projects", "page": 1.0}, "page and perPage are required for get_projects action"},
		{toolList, map[string]any{"action": "get_all"}, "boardId is required for get_all action"},
		{toolCard, map[string]any{"action": "move", "id": "c1", "listId": "l2"}, "id, listId, and position are required for move action"},
		{toolCard, map[string]any{"action": "create_with_tasks", "listId": "l1"}, "listId and name are required for create_with_tasks action"},
		{toolCard, map[string]any{"action": "get_details"}, "cardId is required for get_details action"},
		{toolLabel, map[string]any{"action": "add_to_card", "cardId": "c1"}, "cardId and labelId are required for add_to_card action"},
		{toolTask, map[string]any{"action": "batch_create", "tasks": []any{}}, "tasks array is required for batch_create action"},
		{toolComment, map[string]any{"action": "update", "id": "m1"}, "id and text are required for update action"},
		{toolMembership, map[string]any{"action": "create", "boardId": "b1", "role": "editor"}, "boardId, userId, and role are required for create action"},
		{toolStopwatch, map[string]any{"action": "start"}, "missing required parameter(s): id"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.params["action"].(string), func(t *testing.T) {
			s, m := newPlankaServer(t)
			res := run(t, m, tt.tool, tt.params)
			if !res.IsError {
				t.Fatalf("expected validation error, got %s", res.Content[0].Text)
			}
			if res.ErrorInfo.Category != modules.CategoryValidation {
				t.Errorf("category = %s, want validation", res.ErrorInfo.Category)
			}
			if !strings.Contains(res.Content[0].Text, tt.wantMsg) {
				t.Errorf("text = %q, want %q", res.Content[0].Text, tt.wantMsg)
			}
			if n := len(s.seen()); n != 0 {
				t.Errorf("%d requests sent before validation failed", n)
			}
		})
	}
}

func TestUnknownAction(t *testing.T) {
	_, m := newPlankaServer(t)
	if _, err := m.ExecuteTool(context.Background(), toolCard, map[string]any{"action": "explode"}); !modules.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateBoard(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("POST /api/projects/p1/boards", "b1")

	res := run(t, m, toolProjectBoard, map[string]any{
		"action": "create_board", "projectId": "p1", "name": "Backlog", "position": 0.0,
	})
	out := decodeText(t, res)

	req := s.last(http.MethodPost, "/api/projects/p1/boards")
	if req == nil {
		t.Fatal("no create request")
	}
	want := map[string]any{"projectId": "p1", "name": "Backlog", "position": 0.0}
	if len(req.body) != len(want) {
		t.Errorf("body = %v, want %v", req.body, want)
	}
	for k, v := range want {
		if req.body[k] != v {
			t.Errorf("body[%s] = %v, want %v", k, req.body[k], v)
		}
	}
	item, _ := out["item"].(map[string]any)
	if item["id"] != "b1" || item["projectId"] != "p1" {
		t.Errorf("result = %v", out)
	}
}

func TestMoveCard(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("PATCH /api/cards/c1", "c1")

	run(t, m, toolCard, map[string]any{"action": "move", "id": "c1", "listId": "l2", "position": 1.0})

	req := s.last(http.MethodPatch, "/api/cards/c1")
	if req == nil {
		t.Fatal("no move request")
	}
	if len(req.body) != 2 || req.body["listId"] != "l2" || req.body["position"] != 1.0 {
		t.Errorf("body = %v, want only listId and position", req.body)
	}
}

func TestUpdateCardSendsOnlyGivenFields(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("PATCH /api/cards/c1", "c1")

	out := decodeText(t, run(t, m, toolCard, map[string]any{
		"action": "update", "id": "c1", "name": "X", "position": 3.0, "dueDate": nil,
	}))

	req := s.last(http.MethodPatch, "/api/cards/c1")
	if _, ok := req.body["description"]; ok {
		t.Error("description sent without being given")
	}
	if v, ok := req.body["dueDate"]; !ok || v != nil {
		t.Errorf("dueDate = %v (present %v), want explicit null", v, ok)
	}
	item, _ := out["item"].(map[string]any)
	if item["name"] != "X" || item["position"] != 3.0 {
		t.Errorf("result = %v", out)
	}
}

func TestCompleteTask(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("PATCH /api/tasks/t1", "t1")

	run(t, m, toolTask, map[string]any{"action": "complete_task", "id": "t1"})

	req := s.last(http.MethodPatch, "/api/tasks/t1")
	if req == nil || len(req.body) != 1 || req.body["isCompleted"] != true {
		t.Errorf("request = %+v", req)
	}
}

func TestBatchCreateTasks(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("POST /api/cards/c1/tasks", "t")
	s.echo("POST /api/cards/c2/tasks", "t")

	out := decodeText(t, run(t, m, toolTask, map[string]any{
		"action": "batch_create",
		"tasks": []any{
			map[string]any{"cardId": "c1", "name": "one"},
			map[string]any{"cardId": "c2", "name": "two", "position": 2.0},
		},
	}))
	tasks, _ := out["tasks"].([]any)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %v", out)
	}
	if body := s.last(http.MethodPost, "/api/cards/c2/tasks").body; body["cardId"] != "c2" || body["position"] != 2.0 {
		t.Errorf("second task body = %v", body)
	}
}

func TestCreateCardWithTasksTool(t *testing.T) {
	s, m := newPlankaServer(t)
	s.echo("POST /api/lists/l1/cards", "card-123")
	s.echo("POST /api/cards/card-123/tasks", "t")

	out := decodeText(t, run(t, m, toolCard, map[string]any{
		"action": "create_with_tasks", "listId": "l1", "name": "Release",
		"tasks": []any{"a", "b", "c"},
	}))
	tasks, _ := out["tasks"].([]any)
	if len(tasks) != 3 {
		t.Fatalf("tasks = %v", out)
	}
	for i, raw := range tasks {
		task := raw.(map[string]any)
		if task["cardId"] != "card-123" {
			t.Errorf("task[%d].cardId = %v", i, task["cardId"])
		}
	}
	if _, ok := out["comment"]; ok {
		t.Error("comment created without being given")
	}
}

func TestMembershipCreateResolvesEmail(t *testing.T) {
	s, m := newPlankaServer(t)
	s.on("GET /api/users", func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"items": []any{
			map[string]any{"id": "u7", "email": "ada@example.com", "username": "ada"},
		}}
	})
	s.echo("POST /api/boards/b1/memberships", "bm1")

	run(t, m, toolMembership, map[string]any{
		"action": "create", "boardId": "b1", "userEmail": "ada@example.com", "role": "viewer",
	})
	req := s.last(http.MethodPost, "/api/boards/b1/memberships")
	if req == nil || req.body["userId"] != "u7" || req.body["role"] != "viewer" {
		t.Errorf("request = %+v", req)
	}

	res := run(t, m, toolMembership, map[string]any{
		"action": "create", "boardId": "b1", "username": "nobody", "role": "viewer",
	})
	if !res.IsError || res.ErrorInfo.Category != modules.CategoryNotFound {
		t.Errorf("unknown user: %+v", res)
	}
}

func TestLabelColorEnum(t *testing.T) {
	s, m := newPlankaServer(t)
	res := run(t, m, toolLabel, map[string]any{
		"action": "create", "boardId": "b1", "name": "bug", "color": "neon-pink", "position": 1.0,
	})
	if !res.IsError || res.ErrorInfo.Category != modules.CategoryValidation {
		t.Errorf("expected validation error, got %+v", res)
	}
	if n := len(s.seen()); n != 0 {
		t.Errorf("%d requests sent", n)
	}
}

func TestAddAttachment(t *testing.T) {
	s, m := newPlankaServer(t)
	s.on("POST /api/cards/c1/attachments", func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"item": map[string]any{"id": "a1", "name": "notes.txt"}}
	})

	out := decodeText(t, run(t, m, toolCard, map[string]any{
		"action": "add_attachment", "id": "c1", "fileName": "notes.txt",
		"content": base64.StdEncoding.EncodeToString([]byte("hello")),
	}))
	if item, _ := out["item"].(map[string]any); item["id"] != "a1" {
		t.Errorf("result = %v", out)
	}

	res := run(t, m, toolCard, map[string]any{
		"action": "add_attachment", "id": "c1", "fileName": "notes.txt", "content": "%%%",
	})
	if !res.IsError || res.ErrorInfo.Category != modules.CategoryValidation {
		t.Errorf("bad base64: %+v", res)
	}
}

func TestRemoteErrorIsReported(t *testing.T) {
	_, m := newPlankaServer(t)
	res := run(t, m, toolCard, map[string]any{"action": "get_one", "id": "missing"})
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if res.ErrorInfo.Category != modules.CategoryNotFound || res.ErrorInfo.StatusCode != http.StatusNotFound {
		t.Errorf("errorInfo = %+v", res.ErrorInfo)
	}
}
