package core

import (
	"strings"
	"unicode/utf8"
)

type DBPost interface {
	ID() int
	Title() string
	Text() string
	CreatorID() int
	GroupID() int
	Created() (int64, bool) // false while the post is a draft
	Private() bool
}

type PostDB interface {
	Delete(p DBPost) error
	GetPost(id int) (DBPost, error)
	GetPublished(u DBUser, limit, offset int) ([]DBPost, error) // private posts only for members
	GetByGroup(g DBGroup) ([]DBPost, error)
	GetDrafts(u DBUser) ([]DBPost, error)
	CountByGroup(g DBGroup) (int, error)
	InsertPost(title, text string, creator DBUser, g DBGroup, draft bool) (DBPost, error)
	UpdatePost(p DBPost, title, text string) error
	Publish(p DBPost) error
	Writeable() bool
}

func validatePost(title string) error {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > 100 {
		return ValidationError("Provided data is not valid")
	}
	return nil
}

// CreatePost persists a post in the given group. Only members may post.
//
// Polarity of the draft flag: a present "publish" form value yields a
// draft (no created timestamp), an absent one yields a published post.
// The flag is passed here as draft, already inverted by the caller.
// The post copies the privacy flag of its group, frozen from then on.
func (c *CoreDB) CreatePost(title, text string, creator DBUser, g DBGroup, draft bool) (DBPost, error) {

	member, err := IsMember(creator, g)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, AuthorizationError(c.Messages.MustJoinToPost)
	}

	if err := validatePost(title); err != nil {
		return nil, err
	}

	return c.InsertPost(strings.TrimSpace(title), text, creator, g, draft)
}

// UpdatePost overwrites title and text. Only the creator may update.
func (c *CoreDB) UpdatePost(p DBPost, title, text string, acting DBUser) error {
	if !IsCreator(acting.ID(), p) {
		return AuthorizationError(c.Messages.OnlyCreatorMayUpdate)
	}
	if err := validatePost(title); err != nil {
		return err
	}
	return c.PostDB.UpdatePost(p, strings.TrimSpace(title), text)
}

// DeletePost is gated like DeleteGroup: open to any authenticated caller
// unless CreatorGatedDelete is set.
func (c *CoreDB) DeletePost(p DBPost, acting DBUser) error {
	if c.CreatorGatedDelete && !IsCreator(acting.ID(), p) {
		return AuthorizationError(c.Messages.OnlyCreatorMayUpdate)
	}
	return c.PostDB.Delete(p)
}

// PublishPost sets the created timestamp to now, turning a draft into a
// published post. Re-publishing is not guarded, it resets the timestamp.
func (c *CoreDB) PublishPost(p DBPost) error {
	return c.Publish(p)
}
