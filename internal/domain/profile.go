package domain

import "time"

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCoach   Role = "coach"
	RoleSwimmer Role = "swimmer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCoach || r == RoleSwimmer
}

// Profile represents a user of the system (either a Coach or a Swimmer).
// Profiles are provisioned by the team administrator; sign-in never creates one.
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"` // Should be unique
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *Profile) IsCoach() bool {
	return p.Role == RoleCoach
}

func (p *Profile) IsSwimmer() bool {
	return p.Role == RoleSwimmer
}

// MagicLink is a single-use sign-in link. Only a bcrypt hash of the secret
// half of the token is stored.
type MagicLink struct {
	ID         string     `bson:"_id" json:"id"`
	ProfileID  string     `bson:"profileId" json:"profileId"`
	Email      string     `bson:"email" json:"email"`
	SecretHash string     `bson:"secretHash" json:"-"`
	ExpiresAt  time.Time  `bson:"expiresAt" json:"expiresAt"`
	UsedAt     *time.Time `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
}
