package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/model"
)

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := &Project{
		Name: "org chart",
		Document: model.Document{
			Nodes: []model.Node{{ID: "a"}, {ID: "b"}},
			Edges: []model.Edge{{ID: "e1", Source: "a", Target: "b"}},
		},
	}
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if p.CreatedAt.IsZero() {
		t.Error("Create did not set CreatedAt")
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "org chart" || len(got.Document.Nodes) != 2 {
		t.Errorf("Get = %+v", got)
	}

	got.Name = "renamed"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, _ := s.Get(ctx, p.ID)
	if updated.Name != "renamed" {
		t.Errorf("Name = %q after update", updated.Name)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Error("Update changed CreatedAt")
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("Get after delete = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("Get = %v, want PROJECT_NOT_FOUND", err)
	}
	if err := s.Update(ctx, &Project{ID: "nope"}); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("Update = %v, want PROJECT_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("Delete = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := &Project{Name: "older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Project{Name: "newer"}
	if err := s.Create(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, newer); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "newer" {
		t.Errorf("List order = %v", []string{list[0].Name, list[1].Name})
	}
}

func TestMemoryStoreDuplicateCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := &Project{ID: "fixed", Name: "one"}
	if err := s.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &Project{ID: "fixed"}); err == nil {
		t.Error("duplicate Create succeeded")
	}
}
