package repository

import (
	"context"
	"reflect"
	"testing"

	"todoApp/models"
)

func TestTodoRepository_RoundTrip(t *testing.T) {
	st := NewStore(openTestDB(t, "todorepo_roundtrip"))
	ctx := context.Background()

	owner, err := st.Users.Create(ctx, newUser("alice"))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	in := &models.Todo{Title: "Buy milk", Description: "Two litres", Priority: 3, Complete: true, OwnerID: owner.ID}
	created, err := st.Todos.Create(ctx, in)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}
	got, err := st.Todos.GetByIDForOwner(ctx, created.ID, owner.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %+v", err, got)
	}
	want := *in
	want.ID = created.ID
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", *got, want)
	}
}

func TestTodoRepository_OwnershipIsolation(t *testing.T) {
	st := NewStore(openTestDB(t, "todorepo_owner"))
	ctx := context.Background()

	alice, _ := st.Users.Create(ctx, newUser("alice"))
	bob, _ := st.Users.Create(ctx, newUser("bob"))

	todo, err := st.Todos.Create(ctx, &models.Todo{Title: "secret", Description: "alice only", Priority: 1, OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, err := st.Todos.GetByIDForOwner(ctx, todo.ID, bob.ID); err != nil || got != nil {
		t.Fatalf("bob read alice's todo: %+v err=%v", got, err)
	}
	list, err := st.Todos.ListByOwner(ctx, bob.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("bob list = %+v err=%v, want empty", list, err)
	}
	if list == nil {
		t.Fatalf("empty list must be non-nil so it encodes as []")
	}

	hijack := *todo
	hijack.OwnerID = bob.ID
	hijack.Title = "hijacked"
	if ok, err := st.Todos.UpdateForOwner(ctx, &hijack); err != nil || ok {
		t.Fatalf("bob update alice's todo: ok=%v err=%v", ok, err)
	}
	if ok, err := st.Todos.DeleteForOwner(ctx, todo.ID, bob.ID); err != nil || ok {
		t.Fatalf("bob delete alice's todo: ok=%v err=%v", ok, err)
	}

	still, _ := st.Todos.GetByIDForOwner(ctx, todo.ID, alice.ID)
	if still == nil || still.Title != "secret" {
		t.Fatalf("alice's todo changed: %+v", still)
	}

	upd := *todo
	upd.Complete = true
	if ok, err := st.Todos.UpdateForOwner(ctx, &upd); err != nil || !ok {
		t.Fatalf("owner update: ok=%v err=%v", ok, err)
	}
	if ok, err := st.Todos.DeleteForOwner(ctx, todo.ID, alice.ID); err != nil || !ok {
		t.Fatalf("owner delete: ok=%v err=%v", ok, err)
	}
	if all, _ := st.Todos.ListAll(ctx); len(all) != 0 {
		t.Fatalf("expected no todos left, got %+v", all)
	}
}

func TestTodoRepository_UnknownOwnerRejected(t *testing.T) {
	st := NewStore(openTestDB(t, "todorepo_fk"))
	if _, err := st.Todos.Create(context.Background(), &models.Todo{Title: "orphan", Description: "none", Priority: 1, OwnerID: 42}); err == nil {
		t.Fatalf("expected foreign key error for missing owner")
	}
}
