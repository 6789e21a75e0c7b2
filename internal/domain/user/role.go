package user

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleEmployer:
		return RoleEmployer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// SelfRegistrable reports whether the role may be chosen at sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleCandidate || r == RoleEmployer
}

func (r Role) CanApply() bool    { return r == RoleCandidate }
func (r Role) CanPostJobs() bool { return r == RoleEmployer }
func (r Role) CanModerate() bool { return r == RoleAdmin }
func (r Role) HasWishlist() bool { return r == RoleCandidate }

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// CanManageJob reports whether the actor may edit or delete a job owned by
// employerID. Admins manage every job.
func (a Actor) CanManageJob(employerID uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.Role == RoleEmployer && a.ID == employerID
}
