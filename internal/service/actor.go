package service

import "swimteam/swimlog/internal/domain"

// Actor is the signed-in user a call is made for, taken from the session token.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsCoach() bool { return a.Role == domain.RoleCoach }

// canEdit reports whether a may change a row owned by ownerID: swimmers
// edit their own rows, coaches edit any.
func (a Actor) canEdit(ownerID string) bool {
	return a.IsCoach() || a.ID == ownerID
}
