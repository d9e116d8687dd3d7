package core_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/agora/core"
	"github.com/wansing/agora/sqldb"
)

var testMessages = core.Messages{
	LoginFailed:          "Wrong username or password",
	PasswordsDontMatch:   "Passwords don't match",
	UserExists:           "User with this username already exists",
	OnlyCreatorMayUpdate: "Only creator is allowed to update the group",
	MustJoinToPost:       "you must join group to create posts",
	InviteNoSuchUser:     "User doesn't exist",
	InviteAlreadyMember:  "User is a member already",
	InviteDone:           "User was invited",
}

func newCoreDB(t *testing.T) *core.CoreDB {

	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1) // each sqlite in-memory connection gets its own database
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db := &core.CoreDB{}
	if err := db.Init(nil, ""); err != nil {
		t.Fatalf("init: %v", err)
	}
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.GroupDB = sqldb.NewGroupDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	db.Messages = testMessages
	db.SqlDB = sqlDB
	return db
}

func newTestUser(t *testing.T, db *core.CoreDB, name string) core.DBUser {
	t.Helper()
	u, err := db.InsertUser(name, name+"@example.com", "test123")
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return u
}

func TestRegister(t *testing.T) {

	db := newCoreDB(t)

	if _, err := db.Register("test", "test@test.com", "test123", "test123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := db.Register("test", "test@test.com", "test123", "test123")
	if err == nil || err.Error() != testMessages.UserExists {
		t.Fatalf("got %v, want the user-exists literal", err)
	}

	_, err = db.Register("test2", "test@test.com", "test123", "wrongpassword")
	if err == nil || err.Error() != testMessages.PasswordsDontMatch {
		t.Fatalf("got %v, want the passwords literal", err)
	}
}

func TestCreateGroupValidation(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")

	if _, err := db.CreateGroup("test_group", core.General, false, alice); err != nil {
		t.Fatalf("create group: %v", err)
	}

	if _, err := db.CreateGroup("", core.General, false, alice); err == nil {
		t.Fatal("empty name should be rejected")
	}
	if _, err := db.CreateGroup("test_group", core.Theme("XX"), false, alice); err == nil {
		t.Fatal("unknown theme should be rejected")
	}

	var long = make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := db.CreateGroup(string(long), core.General, false, alice); err == nil {
		t.Fatal("too long name should be rejected")
	}
}

func TestPrivateGroupCreatorIsMember(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")

	g, err := db.CreateGroup("secret", core.General, true, alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	member, err := core.IsMember(alice, g)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !member {
		t.Fatal("the creator of a private group must be a member")
	}
}

func TestUpdateGroupRequiresCreator(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	err := db.UpdateGroup(g, "updated_group", core.Space, bob)
	if err == nil || err.Error() != testMessages.OnlyCreatorMayUpdate {
		t.Fatalf("got %v, want the creator literal", err)
	}

	reloaded, _ := db.GetGroup(g.ID())
	if reloaded.Name() != "test_group" || reloaded.Theme() != core.General {
		t.Fatal("a rejected update must leave the group unchanged")
	}

	if err := db.UpdateGroup(g, "updated_group", core.Space, alice); err != nil {
		t.Fatalf("update by creator: %v", err)
	}
}

func TestToggleMembership(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	joined, err := db.ToggleMembership(g, bob)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !joined {
		t.Fatal("first toggle must join")
	}

	joined, err = db.ToggleMembership(g, bob)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if joined {
		t.Fatal("second toggle must leave")
	}

	// two toggles restore the original state
	if member, _ := core.IsMember(bob, g); member {
		t.Fatal("bob should not be a member after toggling twice")
	}
}

func TestInvite(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	outcome, err := db.Invite(g, "nobody")
	if err != nil || outcome != testMessages.InviteNoSuchUser {
		t.Fatalf("got %q, %v", outcome, err)
	}

	outcome, err = db.Invite(g, "bob")
	if err != nil || outcome != testMessages.InviteDone {
		t.Fatalf("got %q, %v", outcome, err)
	}

	members, _ := g.Members()
	countBefore := len(members)

	outcome, err = db.Invite(g, "bob")
	if err != nil || outcome != testMessages.InviteAlreadyMember {
		t.Fatalf("got %q, %v", outcome, err)
	}

	members, _ = g.Members()
	if len(members) != countBefore {
		t.Fatal("inviting a member must not change the membership count")
	}
}

func TestCreatePostRequiresMembership(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	_, err := db.CreatePost("hello", "text", bob, g, false)
	if err == nil || err.Error() != testMessages.MustJoinToPost {
		t.Fatalf("got %v, want the must-join literal", err)
	}

	count, _ := db.CountByGroup(g)
	if count != 0 {
		t.Fatalf("got %d posts, want 0", count)
	}

	db.ToggleMembership(g, bob)
	if _, err := db.CreatePost("hello", "text", bob, g, false); err != nil {
		t.Fatalf("create post as member: %v", err)
	}
}

func TestDraftPolarity(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	g, _ := db.CreateGroup("test_group", core.General, true, alice)

	// the draft flag corresponds to a present "publish" form value
	draft, err := db.CreatePost("draft", "text", alice, g, true)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, published := draft.Created(); published {
		t.Fatal("draft must have no created timestamp")
	}

	published, err := db.CreatePost("published", "text", alice, g, false)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, ok := published.Created(); !ok {
		t.Fatal("post must have a created timestamp")
	}

	if err := db.PublishPost(draft); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok := draft.Created(); !ok {
		t.Fatal("published draft must have a created timestamp")
	}
	if drafts, _ := db.GetDrafts(alice); len(drafts) != 0 {
		t.Fatalf("got %d drafts, want 0", len(drafts))
	}
}

func TestUpdatePostRequiresCreator(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)
	db.ToggleMembership(g, alice)
	p, _ := db.CreatePost("hello", "text", alice, g, false)

	err := db.UpdatePost(p, "changed", "changed", bob)
	if err == nil || err.Error() != testMessages.OnlyCreatorMayUpdate {
		t.Fatalf("got %v, want the creator literal", err)
	}

	reloaded, _ := db.GetPost(p.ID())
	if reloaded.Title() != "hello" {
		t.Fatal("a rejected update must leave the post unchanged")
	}

	if err := db.UpdatePost(p, "changed", "changed", alice); err != nil {
		t.Fatalf("update by creator: %v", err)
	}
}

func TestCreatorGatedDelete(t *testing.T) {

	db := newCoreDB(t)
	db.CreatorGatedDelete = true
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	err := db.DeleteGroup(g, bob)
	if err == nil || err.Error() != testMessages.OnlyCreatorMayUpdate {
		t.Fatalf("got %v, want the creator literal", err)
	}
	if _, err := db.GetGroup(g.ID()); err != nil {
		t.Fatal("the group must still exist")
	}

	if err := db.DeleteGroup(g, alice); err != nil {
		t.Fatalf("delete by creator: %v", err)
	}
}

func TestDeleteOpenByDefault(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	// no creator check on delete unless configured
	if err := db.DeleteGroup(g, bob); err != nil {
		t.Fatalf("delete by non-creator: %v", err)
	}
}

func TestIsCreator(t *testing.T) {

	db := newCoreDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	g, _ := db.CreateGroup("test_group", core.General, false, alice)

	if !core.IsCreator(alice.ID(), g) {
		t.Fatal("alice is the creator")
	}
	if core.IsCreator(bob.ID(), g) {
		t.Fatal("bob is not the creator")
	}
}
