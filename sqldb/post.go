package sqldb

import (
	"database/sql"
	"time"

	"github.com/wansing/agora/core"
)

type post struct {
	id      int
	title   string
	text    string
	creator int
	grp     int
	created sql.NullInt64 // null while the post is a draft
	private bool
}

func (p *post) ID() int {
	return p.id
}

func (p *post) Title() string {
	return p.title
}

func (p *post) Text() string {
	return p.text
}

func (p *post) CreatorID() int {
	return p.creator
}

func (p *post) GroupID() int {
	return p.grp
}

func (p *post) Created() (int64, bool) {
	return p.created.Int64, p.created.Valid
}

func (p *post) Private() bool {
	return p.private
}

type PostDB struct {
	*sql.DB
	delete       *sql.Stmt
	get          *sql.Stmt
	getByGroup   *sql.Stmt
	getDrafts    *sql.Stmt
	getPublished *sql.Stmt
	countByGroup *sql.Stmt
	insert       *sql.Stmt
	update       *sql.Stmt
	publish      *sql.Stmt
}

// NewPostDB prepares against the membership table as well, so the GroupDB
// must be created first.
func NewPostDB(db *sql.DB) *PostDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS post (
			id INTEGER PRIMARY KEY,
			title varchar(100) NOT NULL,
			text text NOT NULL,
			creator int(11) NOT NULL,
			grp int(11) NOT NULL,
			created int(11),
			private int(1) NOT NULL DEFAULT 0
		);`)

	var postDB = &PostDB{}
	postDB.DB = db
	postDB.delete = mustPrepare(db, "DELETE FROM post WHERE id = ?")
	postDB.get = mustPrepare(db, "SELECT title, text, creator, grp, created, private FROM post WHERE id = ? LIMIT 1")
	postDB.getByGroup = mustPrepare(db, "SELECT id, title, text, creator, grp, created, private FROM post WHERE grp = ? AND created IS NOT NULL ORDER BY created DESC")
	postDB.getDrafts = mustPrepare(db, "SELECT id, title, text, creator, grp, created, private FROM post WHERE creator = ? AND created IS NULL ORDER BY id DESC")
	postDB.getPublished = mustPrepare(db, `
		SELECT id, title, text, creator, grp, created, private FROM post
		WHERE created IS NOT NULL
		AND (private = 0 OR grp IN (SELECT grp FROM membership WHERE usr = ?))
		ORDER BY created DESC LIMIT ? OFFSET ?`)
	postDB.countByGroup = mustPrepare(db, "SELECT COUNT(1) FROM post WHERE grp = ?")
	postDB.insert = mustPrepare(db, "INSERT INTO post (title, text, creator, grp, created, private) VALUES (?, ?, ?, ?, ?, ?)")
	postDB.update = mustPrepare(db, "UPDATE post SET title = ?, text = ? WHERE id = ?")
	postDB.publish = mustPrepare(db, "UPDATE post SET created = ? WHERE id = ?")
	return postDB
}

func (db *PostDB) Writeable() bool {
	return true
}

func (db *PostDB) Delete(p core.DBPost) error {
	_, err := db.delete.Exec(p.ID())
	return err
}

func (db *PostDB) GetPost(id int) (core.DBPost, error) {
	var p = &post{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&p.title, &p.text, &p.creator, &p.grp, &p.created, &p.private)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (db *PostDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.DBPost, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts = []core.DBPost{}

	for rows.Next() {
		var p = &post{}
		err = rows.Scan(&p.id, &p.title, &p.text, &p.creator, &p.grp, &p.created, &p.private)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, nil
}

func (db *PostDB) GetByGroup(g core.DBGroup) ([]core.DBPost, error) {
	return db.getMultiple(db.getByGroup, g.ID())
}

func (db *PostDB) GetDrafts(u core.DBUser) ([]core.DBPost, error) {
	return db.getMultiple(db.getDrafts, u.ID())
}

// GetPublished returns published posts, newest first. Posts of private
// groups are included only if the given user is a member. u can be nil.
func (db *PostDB) GetPublished(u core.DBUser, limit, offset int) ([]core.DBPost, error) {
	var uid = 0
	if u != nil {
		uid = u.ID()
	}
	return db.getMultiple(db.getPublished, uid, limit, offset)
}

func (db *PostDB) CountByGroup(g core.DBGroup) (int, error) {
	var count int
	err := db.countByGroup.QueryRow(g.ID()).Scan(&count)
	return count, err
}

func (db *PostDB) InsertPost(title, text string, creator core.DBUser, g core.DBGroup, draft bool) (core.DBPost, error) {

	var p = &post{
		title:   title,
		text:    text,
		creator: creator.ID(),
		grp:     g.ID(),
		private: g.Private(), // frozen from here on
	}
	if !draft {
		p.created = sql.NullInt64{Int64: time.Now().Unix(), Valid: true}
	}

	result, err := db.insert.Exec(p.title, p.text, p.creator, p.grp, p.created, p.private)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	p.id = int(id)

	return p, nil
}

func (db *PostDB) UpdatePost(p core.DBPost, title, text string) error {

	if _, err := db.update.Exec(title, text, p.ID()); err != nil {
		return err
	}

	if p, ok := p.(*post); ok {
		p.title = title
		p.text = text
	}
	return nil
}

func (db *PostDB) Publish(p core.DBPost) error {

	var now = time.Now().Unix()

	if _, err := db.publish.Exec(now, p.ID()); err != nil {
		return err
	}

	if p, ok := p.(*post); ok {
		p.created = sql.NullInt64{Int64: now, Valid: true}
	}
	return nil
}
