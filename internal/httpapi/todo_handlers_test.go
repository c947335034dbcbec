package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"todoApp/models"
)

func validTodo() map[string]any {
	return map[string]any{
		"title":       "Buy milk",
		"description": "Two liters, semi skimmed",
		"priority":    3,
		"complete":    false,
	}
}

func createTodo(t *testing.T, env *testEnv, tok string, body map[string]any) models.Todo {
	t.Helper()
	rec := env.do(http.MethodPost, "/todo", body, tok)
	expectStatus(t, rec, http.StatusCreated)
	var td models.Todo
	decode(t, rec, &td)
	return td
}

func TestTodos_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	tok := env.user("alice")

	created := createTodo(t, env, tok, validTodo())
	if created.ID == 0 || created.Title != "Buy milk" || created.Priority != 3 || created.OwnerID == 0 {
		t.Fatalf("created = %+v", created)
	}

	path := fmt.Sprintf("/todo/%d", created.ID)
	var got models.Todo
	rec := env.do(http.MethodGet, path, nil, tok)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &got)
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	update := validTodo()
	update["title"] = "Buy oat milk"
	update["priority"] = 5
	update["complete"] = true
	expectStatus(t, env.do(http.MethodPut, path, update, tok), http.StatusNoContent)

	rec = env.do(http.MethodGet, path, nil, tok)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &got)
	if got.Title != "Buy oat milk" || got.Priority != 5 || !got.Complete || got.OwnerID != created.OwnerID {
		t.Fatalf("after update: %+v", got)
	}

	var list []models.Todo
	rec = env.do(http.MethodGet, "/todo", nil, tok)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	expectStatus(t, env.do(http.MethodDelete, path, nil, tok), http.StatusNoContent)
	expectStatus(t, env.do(http.MethodGet, path, nil, tok), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodDelete, path, nil, tok), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodPut, path, update, tok), http.StatusNotFound)
}

func TestTodos_OwnerIsFromToken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")
	bob := env.user("bob")

	body := validTodo()
	body["owner_id"] = 999
	td := createTodo(t, env, alice, body)
	if td.OwnerID == 999 {
		t.Fatalf("owner taken from body")
	}

	path := fmt.Sprintf("/todo/%d", td.ID)
	expectStatus(t, env.do(http.MethodGet, path, nil, bob), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodPut, path, validTodo(), bob), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodDelete, path, nil, bob), http.StatusNotFound)

	rec := env.do(http.MethodGet, "/todo", nil, bob)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("bob sees %s", rec.Body)
	}

	var got models.Todo
	rec = env.do(http.MethodGet, path, nil, alice)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &got)
	if got != td {
		t.Fatalf("alice's todo changed: %+v", got)
	}
}

func TestTodos_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.user("alice")

	cases := map[string]func(map[string]any){
		"short title":       func(b map[string]any) { b["title"] = "ab" },
		"short description": func(b map[string]any) { b["description"] = "ab" },
		"long description":  func(b map[string]any) { b["description"] = strings.Repeat("x", 101) },
		"priority zero":     func(b map[string]any) { b["priority"] = 0 },
		"priority six":      func(b map[string]any) { b["priority"] = 6 },
		"missing title":     func(b map[string]any) { delete(b, "title") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := validTodo()
			mutate(body)
			expectStatus(t, env.do(http.MethodPost, "/todo", body, tok), http.StatusUnprocessableEntity)
		})
	}

	for _, path := range []string{"/todo/0", "/todo/-1", "/todo/abc"} {
		expectStatus(t, env.do(http.MethodGet, path, nil, tok), http.StatusUnprocessableEntity)
		expectStatus(t, env.do(http.MethodPut, path, validTodo(), tok), http.StatusUnprocessableEntity)
		expectStatus(t, env.do(http.MethodDelete, path, nil, tok), http.StatusUnprocessableEntity)
	}

	rec := env.do(http.MethodGet, "/todo", nil, tok)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("invalid requests persisted: %s", rec.Body)
	}
}

func TestTodos_BoundaryValuesAccepted(t *testing.T) {
	env := newTestEnv(t)
	tok := env.user("alice")

	body := validTodo()
	body["title"] = "abc"
	body["description"] = strings.Repeat("d", 100)
	body["priority"] = 1
	createTodo(t, env, tok, body)
	body["priority"] = 5
	body["description"] = "abc"
	createTodo(t, env, tok, body)
}

func TestAdmin_Todos(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.AllowAdminSignup = true })
	alice := env.user("alice")
	bob := env.user("bob")
	env.register("root", "pw123456", "admin")
	admin := env.login("root", "pw123456")

	a := createTodo(t, env, alice, validTodo())
	createTodo(t, env, bob, validTodo())

	expectStatus(t, env.do(http.MethodGet, "/admin/todo", nil, alice), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/admin/todo/%d", a.ID), nil, alice), http.StatusForbidden)
	expectStatus(t, env.do(http.MethodGet, "/admin/todo", nil, ""), http.StatusUnauthorized)

	var all []models.Todo
	rec := env.do(http.MethodGet, "/admin/todo", nil, admin)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &all)
	if len(all) != 2 {
		t.Fatalf("admin sees %d todos, want 2", len(all))
	}

	expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/admin/todo/%d", a.ID), nil, admin), http.StatusNoContent)
	expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/admin/todo/%d", a.ID), nil, admin), http.StatusNotFound)
	expectStatus(t, env.do(http.MethodGet, fmt.Sprintf("/todo/%d", a.ID), nil, alice), http.StatusNotFound)
}

func TestAdmin_ForgedRoleClaimIsRejected(t *testing.T) {
	env := newTestEnv(t)
	u := env.register("alice", "pw123456", "")
	forged, _, err := env.tokens.Issue("alice", u.ID, "admin", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expectStatus(t, env.do(http.MethodGet, "/admin/todo", nil, forged), http.StatusForbidden)
}
