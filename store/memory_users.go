package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
)

// MemoryDirectory is an in-process user/department directory with the same
// semantics as MongoDirectory. Used in tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

// NewMemoryDirectory returns an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[primitive.ObjectID]models.User)}
}

// Put inserts or replaces a user.
func (d *MemoryDirectory) Put(u models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// GetUser returns the user by id.
func (d *MemoryDirectory) GetUser(_ context.Context, id primitive.ObjectID) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return models.User{}, engine.ErrNotFound
	}
	return u, nil
}

// AddPoints increments the user's point balance.
func (d *MemoryDirectory) AddPoints(_ context.Context, id primitive.ObjectID, delta int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return engine.ErrNotFound
	}
	u.Points += delta
	d.users[id] = u
	return nil
}

// Departments lists department users matching the category and municipality.
func (d *MemoryDirectory) Departments(_ context.Context, category models.ProblemCategory, municipality string) ([]models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []models.User
	for _, u := range d.users {
		if u.Role == models.RoleDepartment && u.Department == category && u.Location.Municipality == municipality {
			out = append(out, u)
		}
	}
	return out, nil
}
