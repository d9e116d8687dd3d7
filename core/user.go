package core

import (
	"errors"
	"strings"
	"unicode/utf8"
)

type DBUser interface {
	ID() int
	Name() string // unique username
	Email() string
}

type UserDB interface {
	Delete(u DBUser) error
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	GetAllUsers(limit, offset int) ([]DBUser, error)
	InsertUser(name, email, password string) (DBUser, error)
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
	Writeable() bool
}

var ErrEmptyPassword = errors.New("refusing to set empty password")

// SetPassword shadows UserDB.SetPassword.
func (c *CoreDB) SetPassword(u DBUser, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return c.UserDB.SetPassword(u, password)
}

// Register creates a user. The two failure modes (existing username,
// mismatched passwords) carry the configured literals because their
// wording is part of the HTTP contract.
func (c *CoreDB) Register(name, email, password1, password2 string) (DBUser, error) {

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, ValidationError("Provided data is not valid")
	}

	if _, err := c.GetUserByName(name); err == nil {
		return nil, ValidationError(c.Messages.UserExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if password1 != password2 {
		return nil, ValidationError(c.Messages.PasswordsDontMatch)
	}
	if password1 == "" {
		return nil, ValidationError("Provided data is not valid")
	}

	return c.InsertUser(name, email, password1)
}
