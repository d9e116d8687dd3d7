package core

import (
	"strings"
	"unicode/utf8"
)

type DBGroup interface {
	ID() int
	Name() string
	Theme() Theme
	CreatorID() int
	Created() int64 // unix timestamp
	Private() bool
	HasMember(u DBUser) (bool, error)
	Members() (map[int]int64, error) // user id => joined unix timestamp
}

type GroupDB interface {
	Delete(g DBGroup) error
	GetAllGroups(limit, offset int) ([]DBGroup, error)
	GetGroup(id int) (DBGroup, error)
	GetGroupsOf(u DBUser) ([]DBGroup, error)
	InsertGroup(name string, theme Theme, creator DBUser, private bool) (DBGroup, error)
	UpdateGroup(g DBGroup, name string, theme Theme) error
	Join(g DBGroup, u DBUser) error
	Leave(g DBGroup, u DBUser) error
	Writeable() bool
}

func validateGroup(name string, theme Theme) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return ValidationError("Provided data is not valid")
	}
	if !theme.Valid() {
		return ValidationError("Provided data is not valid")
	}
	return nil
}

// CreateGroup validates name and theme and persists a new group owned by
// creator. A private group immediately gets a membership for its creator,
// so the creator always counts as a member of their own private group.
func (c *CoreDB) CreateGroup(name string, theme Theme, private bool, creator DBUser) (DBGroup, error) {

	if err := validateGroup(name, theme); err != nil {
		return nil, err
	}

	group, err := c.InsertGroup(strings.TrimSpace(name), theme, creator, private)
	if err != nil {
		return nil, err
	}

	if private {
		if err := c.Join(group, creator); err != nil {
			return nil, err
		}
	}

	return group, nil
}

// UpdateGroup overwrites name and theme. Creator and privacy flag are
// immutable. Only the creator may update.
func (c *CoreDB) UpdateGroup(g DBGroup, name string, theme Theme, acting DBUser) error {
	if !IsCreator(acting.ID(), g) {
		return AuthorizationError(c.Messages.OnlyCreatorMayUpdate)
	}
	if err := validateGroup(name, theme); err != nil {
		return err
	}
	return c.GroupDB.UpdateGroup(g, strings.TrimSpace(name), theme)
}

// DeleteGroup removes the group and, through the storage layer, all of its
// memberships and posts in one transaction. Any authenticated caller may
// delete unless CreatorGatedDelete restricts deletion to the creator.
func (c *CoreDB) DeleteGroup(g DBGroup, acting DBUser) error {
	if c.CreatorGatedDelete && !IsCreator(acting.ID(), g) {
		return AuthorizationError(c.Messages.OnlyCreatorMayUpdate)
	}
	return c.GroupDB.Delete(g)
}

// ToggleMembership joins the user to the group, or removes them if they are
// a member already. It reports whether the user is a member afterwards.
// Two toggles in a row restore the original state.
func (c *CoreDB) ToggleMembership(g DBGroup, u DBUser) (bool, error) {
	member, err := IsMember(u, g)
	if err != nil {
		return false, err
	}
	if member {
		return false, c.Leave(g, u)
	}
	return true, c.Join(g, u)
}

// Invite adds the user with the given name to the group. Its outcome is a
// user-facing message, never a hard error: an unknown username and an
// existing membership are reported, not raised.
func (c *CoreDB) Invite(g DBGroup, invitedName string) (string, error) {

	invited, err := c.GetUserByName(strings.TrimSpace(invitedName))
	if err == ErrNotFound {
		return c.Messages.InviteNoSuchUser, nil
	}
	if err != nil {
		return "", err
	}

	member, err := IsMember(invited, g)
	if err != nil {
		return "", err
	}
	if member {
		return c.Messages.InviteAlreadyMember, nil
	}

	if err := c.Join(g, invited); err != nil {
		return "", err
	}
	return c.Messages.InviteDone, nil
}
