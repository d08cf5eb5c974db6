package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleDepartment UserRole = "department"
)

// Workload is a point-in-time snapshot of a department user's caseload.
type Workload struct {
	ActiveCases    int     `bson:"activeCases" json:"activeCases"`
	CompletionRate float64 `bson:"completionRate" json:"completionRate"`
}

// UserLocation ties a user (or department office) to a municipality.
type UserLocation struct {
	Ward         int          `bson:"ward,omitempty" json:"ward,omitempty"`
	Municipality string       `bson:"municipality,omitempty" json:"municipality,omitempty"`
	Coordinates  *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// User covers citizens, admins and department accounts. Department accounts
// carry a category specialization and a workload snapshot.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password,omitempty" json:"-"`
	Role       UserRole           `bson:"role" json:"role"`
	Department ProblemCategory    `bson:"department,omitempty" json:"department,omitempty"`
	Location   UserLocation       `bson:"location,omitempty" json:"location"`
	Points     int                `bson:"points" json:"points"`
	Workload   *Workload          `bson:"workload,omitempty" json:"workload,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}
