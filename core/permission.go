package core

// Owned is anything with an immutable owning user: groups and posts.
type Owned interface {
	CreatorID() int
}

// IsMember reports whether u is a member of g. A nil user is never a
// member. Absence of membership is false, never an error.
func IsMember(u DBUser, g DBGroup) (bool, error) {
	if u == nil {
		return false, nil
	}
	return g.HasMember(u)
}

// IsCreator reports whether the entity is owned by the user with the
// given id.
func IsCreator(userID int, e Owned) bool {
	return e.CreatorID() == userID
}
