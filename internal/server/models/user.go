// Package models defines server-side data models persisted in the database
// and the value constructors that guard them.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TreasuryID is the system account on the other side of every admin
// adjustment. It is seeded by the initial migration.
const TreasuryID = "00000000-0000-0000-0000-000000000001"

// CanonicalID returns the lower-case hyphenated form of a uuid, the form
// Postgres returns. Strings that are not uuids come back trimmed only.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// User is the core's view of a directory user. CoinBalance is the only
// balance field; it is written exclusively by the ledger.
type User struct {
	ID            string
	DisplayName   string
	SkillsOffered []Skill
	SkillsWanted  []Skill
	CoinBalance   int64
	Blocked       bool
	Rating        float64
	ReviewCount   int
	TotalSessions int
	IsSystem      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Offers reports whether the user offers skill.
func (u *User) Offers(skill Skill) bool {
	for _, s := range u.SkillsOffered {
		if s == skill {
			return true
		}
	}
	return false
}

// UserSnapshot is what the identity directory pushes on sync.
type UserSnapshot struct {
	ID            string
	DisplayName   string
	SkillsOffered []string
	SkillsWanted  []string
	Blocked       bool
}
