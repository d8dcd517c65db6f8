// Package store persists projects: a named document plus the grouping and
// canvas settings that reproduce its layout.
//
// Two backends exist: an in-memory store for tests and single-process use,
// and a MongoDB store for the server. Both implement [Store].
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/model"
)

// Project is one saved graph with its settings.
type Project struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Document  model.Document `json:"document" bson:"document"`
	Grouping  group.Config   `json:"grouping" bson:"grouping"`
	Width     float64        `json:"width" bson:"width"`
	Height    float64        `json:"height" bson:"height"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence interface for projects.
type Store interface {
	// Create stores a new project. An empty ID is assigned a fresh UUID.
	Create(ctx context.Context, p *Project) error

	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*Project, error)

	// List returns all projects ordered by creation time, newest first.
	List(ctx context.Context) ([]*Project, error)

	// Update replaces a stored project.
	Update(ctx context.Context, p *Project) error

	// Delete removes a project.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare assigns an ID and timestamps ahead of a create.
func prepare(p *Project) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
