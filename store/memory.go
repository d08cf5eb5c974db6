package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
)

// MemoryStore keeps problems in process memory behind a per-problem lock
// table: writes to one problem are serialized, writes to different
// problems run in parallel. Used in tests and as the reference semantics
// for MongoStore.
type MemoryStore struct {
	mu       sync.RWMutex
	problems map[primitive.ObjectID]*problemEntry
}

type problemEntry struct {
	mu      sync.Mutex
	problem models.Problem
}

// NewMemoryStore returns an empty in-memory problem store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{problems: make(map[primitive.ObjectID]*problemEntry)}
}

func cloneProblem(p models.Problem) models.Problem {
	c := p
	c.Upvoters = append([]primitive.ObjectID(nil), p.Upvoters...)
	c.Comments = append([]models.Comment(nil), p.Comments...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.ResolutionDetails != nil {
		rd := *p.ResolutionDetails
		rd.ResolutionImages = append([]string(nil), p.ResolutionDetails.ResolutionImages...)
		c.ResolutionDetails = &rd
	}
	if p.AssignedTo != nil {
		id := *p.AssignedTo
		c.AssignedTo = &id
	}
	return c
}

func (s *MemoryStore) entry(id primitive.ObjectID) (*problemEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.problems[id]
	return e, ok
}

// Insert stores a new problem. The problem must carry an id.
func (s *MemoryStore) Insert(_ context.Context, p *models.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems[p.ID] = &problemEntry{problem: cloneProblem(*p)}
	return nil
}

// Get returns a snapshot of the problem.
func (s *MemoryStore) Get(_ context.Context, id primitive.ObjectID) (models.Problem, error) {
	e, ok := s.entry(id)
	if !ok {
		return models.Problem{}, engine.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneProblem(e.problem), nil
}

func matches(p *models.Problem, f engine.ProblemFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Municipality != "" && p.Location.Municipality != f.Municipality {
		return false
	}
	if !f.Reporter.IsZero() && p.Reporter != f.Reporter {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if p.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) snapshot(f engine.ProblemFilter) []models.Problem {
	s.mu.RLock()
	entries := make([]*problemEntry, 0, len(s.problems))
	for _, e := range s.problems {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var out []models.Problem
	for _, e := range entries {
		e.mu.Lock()
		p := cloneProblem(e.problem)
		e.mu.Unlock()
		if matches(&p, f) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// List returns filtered problem snapshots sorted by creation time.
func (s *MemoryStore) List(_ context.Context, f engine.ProblemFilter) ([]models.Problem, error) {
	out := s.snapshot(f)
	if f.Skip > 0 {
		if f.Skip >= int64(len(out)) {
			return []models.Problem{}, nil
		}
		out = out[f.Skip:]
	}
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Count returns the number of problems matching the filter.
func (s *MemoryStore) Count(_ context.Context, f engine.ProblemFilter) (int64, error) {
	f.Skip, f.Limit = 0, 0
	return int64(len(s.snapshot(f))), nil
}

// ToggleUpvote flips the user's membership in the upvoter set under the
// problem's lock, keeping upvoteCount equal to the set size.
func (s *MemoryStore) ToggleUpvote(_ context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	e, ok := s.entry(id)
	if !ok {
		return false, 0, engine.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := &e.problem
	for i, voter := range p.Upvoters {
		if voter == userID {
			p.Upvoters = append(p.Upvoters[:i], p.Upvoters[i+1:]...)
			p.UpvoteCount = len(p.Upvoters)
			p.UpdatedAt = time.Now()
			return false, p.UpvoteCount, nil
		}
	}
	p.Upvoters = append(p.Upvoters, userID)
	p.UpvoteCount = len(p.Upvoters)
	p.UpdatedAt = time.Now()
	return true, p.UpvoteCount, nil
}

// AppendComment appends to the problem's comment sequence.
func (s *MemoryStore) AppendComment(_ context.Context, id primitive.ObjectID, c models.Comment) error {
	e, ok := s.entry(id)
	if !ok {
		return engine.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.problem.Comments = append(e.problem.Comments, c)
	e.problem.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus applies the from→to edge if the status still matches,
// together with any resolution details, priority or assignment carried in
// the change.
func (s *MemoryStore) ChangeStatus(_ context.Context, id primitive.ObjectID, from, to models.ProblemStatus, change engine.StatusChange) (models.Problem, error) {
	e, ok := s.entry(id)
	if !ok {
		return models.Problem{}, engine.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := &e.problem
	if p.Status != from {
		return models.Problem{}, engine.ErrStaleStatus
	}
	p.Status = to
	if change.Resolution != nil {
		rd := *change.Resolution
		p.ResolutionDetails = &rd
	}
	if change.Priority != "" {
		p.Priority = change.Priority
	}
	if change.AssignedTo != nil {
		deptID := *change.AssignedTo
		p.AssignedTo = &deptID
	}
	p.UpdatedAt = time.Now()
	return cloneProblem(*p), nil
}

// Assign sets assignedTo without touching status.
func (s *MemoryStore) Assign(_ context.Context, id, departmentID primitive.ObjectID) (models.Problem, error) {
	e, ok := s.entry(id)
	if !ok {
		return models.Problem{}, engine.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.problem.AssignedTo = &departmentID
	e.problem.UpdatedAt = time.Now()
	return cloneProblem(e.problem), nil
}

// Stats aggregates the dashboard overview from a point-in-time snapshot.
func (s *MemoryStore) Stats(_ context.Context) (engine.AdminStats, error) {
	all := s.snapshot(engine.ProblemFilter{})

	stats := engine.AdminStats{Total: int64(len(all))}
	byCategory := make(map[models.ProblemCategory]*engine.CategoryStat)
	byMunicipality := make(map[string]*engine.MunicipalityStat)

	for i := range all {
		p := &all[i]
		switch p.Status {
		case models.Pending:
			stats.Pending++
		case models.InProgress:
			stats.InProgress++
		case models.Resolved:
			stats.Resolved++
		case models.Rejected:
			stats.Rejected++
		}

		cs, ok := byCategory[p.Category]
		if !ok {
			cs = &engine.CategoryStat{Category: p.Category}
			byCategory[p.Category] = cs
		}
		cs.Count++

		ms, ok := byMunicipality[p.Location.Municipality]
		if !ok {
			ms = &engine.MunicipalityStat{Municipality: p.Location.Municipality}
			byMunicipality[p.Location.Municipality] = ms
		}
		ms.Count++

		if p.Status == models.Resolved {
			cs.Resolved++
			ms.Resolved++
		}
	}

	for _, cs := range byCategory {
		stats.ByCategory = append(stats.ByCategory, *cs)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		return stats.ByCategory[i].Category < stats.ByCategory[j].Category
	})
	for _, ms := range byMunicipality {
		stats.ByMunicipality = append(stats.ByMunicipality, *ms)
	}
	sort.Slice(stats.ByMunicipality, func(i, j int) bool {
		return stats.ByMunicipality[i].Municipality < stats.ByMunicipality[j].Municipality
	})

	if stats.Total > 0 {
		stats.ResolutionRate = math.Round(float64(stats.Resolved)/float64(stats.Total)*10000) / 100
	}
	return stats, nil
}
