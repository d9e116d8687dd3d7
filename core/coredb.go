package core

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

type CoreDB struct {
	GroupDB
	PostDB
	UserDB
	SessionManager *scs.SessionManager
	Messages       Messages

	// CreatorGatedDelete restricts group and post deletion to the
	// creator. Default is off: deletion is open to any authenticated
	// caller, matching the historical behavior.
	CreatorGatedDelete bool

	SqlDB *sql.DB // exported because main owns opening and closing it
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	c.SessionManager = scs.New()
	if sessionStore != nil {
		c.SessionManager.Store = sessionStore
	}
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't store the cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}
