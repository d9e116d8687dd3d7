package sqldb

import (
	"database/sql"
	"time"

	"github.com/wansing/agora/core"
)

type group struct {
	db            *GroupDB // required for lazy loading
	id            int
	name          string
	theme         core.Theme
	creator       int
	created       int64
	private       bool
	members       map[int]int64 // user id => joined unix timestamp
	membersLoaded bool          // lazy loading
}

func (g *group) ID() int {
	return g.id
}

func (g *group) Name() string {
	return g.name
}

func (g *group) Theme() core.Theme {
	return g.theme
}

func (g *group) CreatorID() int {
	return g.creator
}

func (g *group) Created() int64 {
	return g.created
}

func (g *group) Private() bool {
	return g.private
}

func (g *group) HasMember(u core.DBUser) (bool, error) {
	if members, err := g.Members(); err == nil {
		_, ok := members[u.ID()]
		return ok, nil
	} else {
		return false, err
	}
}

func (g *group) Members() (map[int]int64, error) {

	if !g.membersLoaded {

		g.members = make(map[int]int64)

		rows, err := g.db.members.Query(g.id)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var userID int
			var joined int64
			if err = rows.Scan(&userID, &joined); err != nil {
				return nil, err
			}
			g.members[userID] = joined
		}

		g.membersLoaded = true
	}

	return g.members, nil
}

type GroupDB struct {
	*sql.DB
	delete     *sql.Stmt
	get        *sql.Stmt
	getAll     *sql.Stmt
	getOf      *sql.Stmt
	insert     *sql.Stmt
	update     *sql.Stmt
	join       *sql.Stmt
	leave      *sql.Stmt
	leaveUsers *sql.Stmt
	members    *sql.Stmt
}

func NewGroupDB(db *sql.DB) *GroupDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS grp (
			id INTEGER PRIMARY KEY,
			name varchar(100) NOT NULL,
			theme varchar(2) NOT NULL,
			creator int(11) NOT NULL,
			created int(11) NOT NULL,
			private int(1) NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS membership (
			grp int(11) NOT NULL,
			usr int(11) NOT NULL,
			joined int(11) NOT NULL,
			PRIMARY KEY (grp, usr)
		);`)

	var groupDB = &GroupDB{}
	groupDB.DB = db
	groupDB.delete = mustPrepare(db, "DELETE FROM grp WHERE id = ?")
	groupDB.get = mustPrepare(db, "SELECT name, theme, creator, created, private FROM grp WHERE id = ? LIMIT 1")
	groupDB.getAll = mustPrepare(db, "SELECT id, name, theme, creator, created, private FROM grp ORDER BY name LIMIT ? OFFSET ?")
	groupDB.getOf = mustPrepare(db, "SELECT grp.id, grp.name, grp.theme, grp.creator, grp.created, grp.private FROM grp, membership WHERE grp.id = membership.grp AND membership.usr = ? ORDER BY grp.name")
	groupDB.insert = mustPrepare(db, "INSERT INTO grp (name, theme, creator, created, private) VALUES (?, ?, ?, ?, ?)")
	groupDB.update = mustPrepare(db, "UPDATE grp SET name = ?, theme = ? WHERE id = ?")
	groupDB.join = mustPrepare(db, "INSERT INTO membership (grp, usr, joined) VALUES (?, ?, ?)")
	groupDB.leave = mustPrepare(db, "DELETE FROM membership WHERE grp = ? AND usr = ?")
	groupDB.leaveUsers = mustPrepare(db, "DELETE FROM membership WHERE grp = ?")
	groupDB.members = mustPrepare(db, "SELECT usr, joined FROM membership WHERE grp = ?")
	return groupDB
}

func (db *GroupDB) Writeable() bool {
	return true
}

// Delete removes the group, its memberships and its posts in one
// transaction. The post table belongs to PostDB, so it is addressed with
// tx.Exec rather than a prepared statement.
func (db *GroupDB) Delete(g core.DBGroup) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Stmt(db.leaveUsers).Exec(g.ID()); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = tx.Exec("DELETE FROM post WHERE grp = ?", g.ID()); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = tx.Stmt(db.delete).Exec(g.ID()); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *GroupDB) GetGroup(id int) (core.DBGroup, error) {
	var g = &group{
		db: db,
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&g.name, &g.theme, &g.creator, &g.created, &g.private)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (db *GroupDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.DBGroup, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups = []core.DBGroup{}

	for rows.Next() {
		var g = &group{
			db: db,
		}
		err = rows.Scan(&g.id, &g.name, &g.theme, &g.creator, &g.created, &g.private)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, nil
}

func (db *GroupDB) GetAllGroups(limit, offset int) ([]core.DBGroup, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *GroupDB) GetGroupsOf(u core.DBUser) ([]core.DBGroup, error) {
	return db.getMultiple(db.getOf, u.ID())
}

func (db *GroupDB) InsertGroup(name string, theme core.Theme, creator core.DBUser, private bool) (core.DBGroup, error) {

	var g = &group{
		db:      db,
		name:    name,
		theme:   theme,
		creator: creator.ID(),
		created: time.Now().Unix(),
		private: private,
	}

	result, err := db.insert.Exec(g.name, string(g.theme), g.creator, g.created, g.private)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	g.id = int(id)

	return g, nil
}

func (db *GroupDB) UpdateGroup(g core.DBGroup, name string, theme core.Theme) error {

	if _, err := db.update.Exec(name, string(theme), g.ID()); err != nil {
		return err
	}

	if g, ok := g.(*group); ok {
		g.name = name
		g.theme = theme
	}
	return nil
}

func (db *GroupDB) Join(g core.DBGroup, u core.DBUser) error {

	var joined = time.Now().Unix()

	if _, err := db.join.Exec(g.ID(), u.ID(), joined); err != nil {
		return err
	}

	if g, ok := g.(*group); ok && g.membersLoaded {
		g.members[u.ID()] = joined
	}
	return nil
}

func (db *GroupDB) Leave(g core.DBGroup, u core.DBUser) error {

	if _, err := db.leave.Exec(g.ID(), u.ID()); err != nil {
		return err
	}

	if g, ok := g.(*group); ok && g.membersLoaded {
		delete(g.members, u.ID())
	}
	return nil
}
