package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/agora/core"
	"golang.org/x/crypto/bcrypt"
)

var ErrAuth = errors.New("authentication failed")

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

type user struct {
	id    int
	name  string
	email string
	hash  []byte
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Name() string {
	return u.name
}

func (u *user) Email() string {
	return u.email
}

type UserDB struct {
	*sql.DB
	delete      *sql.Stmt
	get         *sql.Stmt
	getByName   *sql.Stmt
	getAll      *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			name varchar(100) NOT NULL,
			email varchar(128) NOT NULL,
			password varchar(64) NOT NULL,
			UNIQUE(name)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.delete = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.get = mustPrepare(db, "SELECT name, email FROM usr WHERE id = ? LIMIT 1")
	userDB.getByName = mustPrepare(db, "SELECT id, email FROM usr WHERE name = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, name, email FROM usr ORDER BY name LIMIT ? OFFSET ?")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (name, email, password) VALUES (?, ?, ?)")
	userDB.login = mustPrepare(db, "SELECT id, email, password FROM usr WHERE name = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET password = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) Writeable() bool {
	return true
}

func (db *UserDB) Delete(u core.DBUser) error {
	_, err := db.delete.Exec(u.ID())
	return err
}

func (db *UserDB) GetUser(id int) (core.DBUser, error) {
	var u = &user{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&u.name, &u.email)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) GetUserByName(name string) (core.DBUser, error) {
	var u = &user{
		name: clean(name),
	}
	err := db.getByName.QueryRow(u.name).Scan(&u.id, &u.email)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]core.DBUser, error) {

	var all = []core.DBUser{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = &user{}
		err = rows.Scan(&u.id, &u.name, &u.email)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}

	return all, nil
}

func (db *UserDB) InsertUser(name, email, password string) (core.DBUser, error) {

	name = clean(name)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	result, err := db.insert.Exec(name, email, hash)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &user{
		id:    int(id),
		name:  name,
		email: email,
		hash:  hash,
	}, nil
}

func (db *UserDB) LoginUser(name, password string) (core.DBUser, error) {

	var u = &user{
		name: clean(name),
	}

	err := db.login.QueryRow(u.name).Scan(&u.id, &u.email, &u.hash)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(u core.DBUser, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := db.setPassword.Exec(hash, u.ID()); err != nil {
		return err
	}

	if u, ok := u.(*user); ok {
		u.hash = hash
	}
	return nil
}
