package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/agora/core"
	"github.com/wansing/agora/sqldb"
	"github.com/wansing/agora/sqldb/mysql"
	"github.com/wansing/agora/sqldb/sqlite3"
	"github.com/wansing/agora/util"
	"github.com/wansing/agora/web"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	flag.StringVar(&dbArg, "db", "sqlite3:agora.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl")
	var configName = flag.String("config", "agora.ini", "read message literals and flags from config/`file`")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", "sqlite3:agora.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given group or user")
	var initJoin = initFlags.Bool("join", false, "joins the given user to the given group")
	var groupname = initFlags.String("group", "", "specifies a group `name`")
	var theme = initFlags.String("theme", string(core.General), "specifies a group theme `code`")
	var username = initFlags.String("user", "", "specifies a user `name`")
	var email = initFlags.String("email", "", "specifies a user email `address`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	cfg, err := util.Ini(*configName)
	if err != nil {
		log.Printf("could not load config: %v", err)
		return
	}

	db := &core.CoreDB{}
	if err := db.Init(sessionStore, *base); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.GroupDB = sqldb.NewGroupDB(sqlDB) // before PostDB, which prepares against the membership table
	db.PostDB = sqldb.NewPostDB(sqlDB)

	db.Messages = core.MessagesFromConfig(cfg)
	db.CreatorGatedDelete = cfg["creator_gated_delete"] == "true"
	db.SqlDB = sqlDB

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initInsert:
			if *groupname != "" {
				insertGroup(db, *groupname, core.Theme(*theme))
			}
			if *username != "" {
				insertUser(db, *username, *email)
			}
		case *initJoin:
			if *groupname != "" && *username != "" {
				join(db, *groupname, *username)
			}
		}
		return
	}

	listen(db, *listenAddr, *base)
}

// insertGroup creates a group owned by user 1.
func insertGroup(db *core.CoreDB, name string, theme core.Theme) {

	creator, err := db.GetUser(1)
	if err != nil {
		log.Printf("error getting user 1: %v", err)
		return
	}

	if _, err := db.CreateGroup(name, theme, false, creator); err != nil {
		log.Printf(`error creating group "%s": %v`, name, err)
	}
}

func insertUser(db *core.CoreDB, name string, email string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	if _, err := db.InsertUser(name, email, string(pass1)); err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}
}

func join(db *core.CoreDB, groupname string, username string) {

	user, err := db.GetUserByName(username)
	if err != nil {
		log.Printf("error getting user %s: %v", username, err)
		return
	}

	groups, err := db.GetAllGroups(10000, 0)
	if err != nil {
		log.Printf("error getting groups: %v", err)
		return
	}

	for _, group := range groups {
		if group.Name() == groupname {
			if _, err := db.ToggleMembership(group, user); err != nil {
				log.Printf("error joining: %v", err)
			}
			return
		}
	}

	log.Printf("group %s not found", groupname)
}

func listen(db *core.CoreDB, addr string, base string) {

	// mux
	//
	// golang mux recovers from panics, so the program won't crash

	var waitingControllers sync.WaitGroup

	var mux = http.NewServeMux()
	util.HandlePrefix(mux, base+"/static", http.FileServer(http.Dir("static")))

	var router = web.NewRouter(db, base)
	util.HandlePrefix(mux, base, http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			waitingControllers.Add(1)
			defer waitingControllers.Done()
			router.ServeHTTP(w, req)
		},
	))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingControllers.Wait()
}
