package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProblemCategory enum
type ProblemCategory string

const (
	Waste      ProblemCategory = "waste"
	Electrical ProblemCategory = "electrical"
	Water      ProblemCategory = "water"
	Street     ProblemCategory = "street"
	Other      ProblemCategory = "other"
)

// ValidCategory reports whether c is one of the enumerated categories.
func ValidCategory(c ProblemCategory) bool {
	switch c {
	case Waste, Electrical, Water, Street, Other:
		return true
	}
	return false
}

// ProblemStatus enum
type ProblemStatus string

const (
	Pending    ProblemStatus = "pending"
	InProgress ProblemStatus = "in_progress"
	Resolved   ProblemStatus = "resolved"
	Rejected   ProblemStatus = "rejected"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s ProblemStatus) bool {
	switch s {
	case Pending, InProgress, Resolved, Rejected:
		return true
	}
	return false
}

// ProblemPriority enum
type ProblemPriority string

const (
	Low      ProblemPriority = "low"
	Medium   ProblemPriority = "medium"
	High     ProblemPriority = "high"
	Critical ProblemPriority = "critical"
)

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p ProblemPriority) bool {
	switch p {
	case Low, Medium, High, Critical:
		return true
	}
	return false
}

// Coordinates is an optional lat/lng pair attached to a location.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Location pins a problem to a municipality and ward.
type Location struct {
	Ward          int          `bson:"ward" json:"ward"`
	Municipality  string       `bson:"municipality" json:"municipality"`
	ExactLocation string       `bson:"exactLocation,omitempty" json:"exactLocation,omitempty"`
	Coordinates   *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Comment is an immutable entry in a problem's comment sequence.
type Comment struct {
	User        primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Text        string             `bson:"text" json:"text"`
	IsAnonymous bool               `bson:"isAnonymous" json:"isAnonymous"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ResolutionDetails is set exactly once, when a problem reaches resolved.
type ResolutionDetails struct {
	ResolvedAt            time.Time          `bson:"resolvedAt" json:"resolvedAt"`
	ResolvedBy            primitive.ObjectID `bson:"resolvedBy" json:"resolvedBy"`
	ResolutionDescription string             `bson:"resolutionDescription" json:"resolutionDescription"`
	ResolutionImages      []string           `bson:"resolutionImages,omitempty" json:"resolutionImages,omitempty"`
	CostIncurred          *float64           `bson:"costIncurred,omitempty" json:"costIncurred,omitempty"`
}

// Problem represents a civic problem reported by a citizen
type Problem struct {
	ID                      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title                   string               `bson:"title" json:"title"`
	Description             string               `bson:"description" json:"description"`
	Category                ProblemCategory      `bson:"category" json:"category"`
	Location                Location             `bson:"location" json:"location"`
	Reporter                primitive.ObjectID   `bson:"reporter" json:"reporter"`
	IsAnonymous             bool                 `bson:"isAnonymous" json:"isAnonymous"`
	Status                  ProblemStatus        `bson:"status" json:"status"`
	Priority                ProblemPriority      `bson:"priority" json:"priority"`
	AssignedTo              *primitive.ObjectID  `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Upvoters                []primitive.ObjectID `bson:"upvoters" json:"upvoters"`
	UpvoteCount             int                  `bson:"upvoteCount" json:"upvoteCount"`
	Comments                []Comment            `bson:"comments" json:"comments"`
	ResolutionDetails       *ResolutionDetails   `bson:"resolutionDetails,omitempty" json:"resolutionDetails,omitempty"`
	Tags                    []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	EstimatedResolutionTime *time.Time           `bson:"estimatedResolutionTime,omitempty" json:"estimatedResolutionTime,omitempty"`
	CreatedAt               time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasUpvoted reports whether userID is in the upvoter set.
func (p *Problem) HasUpvoted(userID primitive.ObjectID) bool {
	for _, id := range p.Upvoters {
		if id == userID {
			return true
		}
	}
	return false
}
