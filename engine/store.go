package engine

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/models"
)

// ProblemFilter narrows List and Count queries. Zero values mean "any".
type ProblemFilter struct {
	Category     models.ProblemCategory
	Statuses     []models.ProblemStatus
	Municipality string
	Reporter     primitive.ObjectID
	Search       string
	SortOldest   bool
	Skip         int64
	Limit        int64
}

// StatusChange carries the writes applied together with a status edge.
type StatusChange struct {
	Resolution *models.ResolutionDetails
	Priority   models.ProblemPriority
	AssignedTo *primitive.ObjectID
}

// CategoryStat is a per-category problem count with its resolved share.
type CategoryStat struct {
	Category models.ProblemCategory `bson:"_id" json:"category"`
	Count    int64                  `bson:"count" json:"count"`
	Resolved int64                  `bson:"resolved" json:"resolved"`
}

// MunicipalityStat is a per-municipality problem count with its resolved share.
type MunicipalityStat struct {
	Municipality string `bson:"_id" json:"municipality"`
	Count        int64  `bson:"count" json:"count"`
	Resolved     int64  `bson:"resolved" json:"resolved"`
}

// AdminStats is the aggregate overview served to admin dashboards.
type AdminStats struct {
	Total          int64              `json:"total"`
	Pending        int64              `json:"pending"`
	InProgress     int64              `json:"inProgress"`
	Resolved       int64              `json:"resolved"`
	Rejected       int64              `json:"rejected"`
	ResolutionRate float64            `json:"resolutionRate"`
	ByCategory     []CategoryStat     `json:"byCategory"`
	ByMunicipality []MunicipalityStat `json:"byMunicipality"`
}

// ProblemStore is the durable repository of problems. Implementations must
// serialize writes to a single problem while allowing full parallelism
// across different problems.
type ProblemStore interface {
	Insert(ctx context.Context, p *models.Problem) error
	Get(ctx context.Context, id primitive.ObjectID) (models.Problem, error)
	List(ctx context.Context, f ProblemFilter) ([]models.Problem, error)
	Count(ctx context.Context, f ProblemFilter) (int64, error)

	// ToggleUpvote atomically adds userID to the upvoter set if absent or
	// removes it if present, keeping upvoteCount in step. Returns the new
	// voted state and count.
	ToggleUpvote(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error)

	// AppendComment appends to the problem's comment sequence.
	AppendComment(ctx context.Context, id primitive.ObjectID, c models.Comment) error

	// ChangeStatus applies the edge from→to only if the problem's status
	// still equals from; otherwise it returns ErrStaleStatus. Returns the
	// updated problem.
	ChangeStatus(ctx context.Context, id primitive.ObjectID, from, to models.ProblemStatus, change StatusChange) (models.Problem, error)

	// Assign sets assignedTo without touching status.
	Assign(ctx context.Context, id, departmentID primitive.ObjectID) (models.Problem, error)

	Stats(ctx context.Context) (AdminStats, error)
}

// UserDirectory is the external user/department collaborator: reporter
// point balances and department workload snapshots.
type UserDirectory interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error)
	AddPoints(ctx context.Context, id primitive.ObjectID, delta int) error

	// Departments lists department-role users specialized in the given
	// category within the given municipality.
	Departments(ctx context.Context, category models.ProblemCategory, municipality string) ([]models.User, error)
}
