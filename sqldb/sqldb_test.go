package sqldb

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/agora/core"
)

// testDBs opens an in-memory database. A single connection is enforced
// because every sqlite in-memory connection gets its own database.
func testDBs(t *testing.T) (*UserDB, *GroupDB, *PostDB) {

	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	userDB := NewUserDB(db)
	groupDB := NewGroupDB(db) // before NewPostDB, which prepares against the membership table
	postDB := NewPostDB(db)
	return userDB, groupDB, postDB
}

func insertTestUser(t *testing.T, userDB *UserDB, name string) core.DBUser {
	t.Helper()
	u, err := userDB.InsertUser(name, name+"@example.com", "test123")
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return u
}

func TestLoginUser(t *testing.T) {

	userDB, _, _ := testDBs(t)
	insertTestUser(t, userDB, "alice")

	u, err := userDB.LoginUser("alice", "test123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Name() != "alice" {
		t.Fatalf("got name %s, want alice", u.Name())
	}

	if _, err := userDB.LoginUser("alice", "wrongpass"); err != ErrAuth {
		t.Fatalf("got %v, want ErrAuth", err)
	}
	if _, err := userDB.LoginUser("nobody", "test123"); err != ErrAuth {
		t.Fatalf("got %v, want ErrAuth", err)
	}
}

func TestGetUserByName(t *testing.T) {

	userDB, _, _ := testDBs(t)
	insertTestUser(t, userDB, "alice")

	u, err := userDB.GetUserByName("alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Email() != "alice@example.com" {
		t.Fatalf("got email %s", u.Email())
	}

	if _, err := userDB.GetUserByName("nobody"); err != core.ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestJoinAndLeave(t *testing.T) {

	userDB, groupDB, _ := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")
	bob := insertTestUser(t, userDB, "bob")

	g, err := groupDB.InsertGroup("test_group", core.General, alice, false)
	if err != nil {
		t.Fatalf("insert group: %v", err)
	}

	if member, _ := g.HasMember(bob); member {
		t.Fatal("bob should not be a member")
	}

	if err := groupDB.Join(g, bob); err != nil {
		t.Fatalf("join: %v", err)
	}
	if member, _ := g.HasMember(bob); !member {
		t.Fatal("bob should be a member")
	}

	// a second Join must violate the (grp, usr) primary key
	if err := groupDB.Join(g, bob); err == nil {
		t.Fatal("duplicate membership should be rejected")
	}

	if err := groupDB.Leave(g, bob); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if member, _ := g.HasMember(bob); member {
		t.Fatal("bob should not be a member any more")
	}
}

func TestGroupsOf(t *testing.T) {

	userDB, groupDB, _ := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")

	g1, _ := groupDB.InsertGroup("a", core.General, alice, false)
	groupDB.InsertGroup("b", core.Music, alice, false)
	groupDB.Join(g1, alice)

	groups, err := groupDB.GetGroupsOf(alice)
	if err != nil {
		t.Fatalf("groups of: %v", err)
	}
	if len(groups) != 1 || groups[0].Name() != "a" {
		t.Fatalf("got %d groups", len(groups))
	}
}

func TestGroupDeleteCascades(t *testing.T) {

	userDB, groupDB, postDB := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")

	g, _ := groupDB.InsertGroup("test_group", core.General, alice, false)
	groupDB.Join(g, alice)
	if _, err := postDB.InsertPost("hello", "text", alice, g, false); err != nil {
		t.Fatalf("insert post: %v", err)
	}

	if err := groupDB.Delete(g); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	if _, err := groupDB.GetGroup(g.ID()); err != core.ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	var memberships, posts int
	groupDB.QueryRow("SELECT COUNT(1) FROM membership WHERE grp = ?", g.ID()).Scan(&memberships)
	groupDB.QueryRow("SELECT COUNT(1) FROM post WHERE grp = ?", g.ID()).Scan(&posts)
	if memberships != 0 {
		t.Fatalf("got %d memberships, want 0", memberships)
	}
	if posts != 0 {
		t.Fatalf("got %d posts, want 0", posts)
	}
}

func TestUpdateGroup(t *testing.T) {

	userDB, groupDB, _ := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")

	g, _ := groupDB.InsertGroup("test_group", core.General, alice, false)
	if err := groupDB.UpdateGroup(g, "updated_group", core.Space); err != nil {
		t.Fatalf("update group: %v", err)
	}

	reloaded, err := groupDB.GetGroup(g.ID())
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if reloaded.Name() != "updated_group" || reloaded.Theme() != core.Space {
		t.Fatalf("got %s/%s", reloaded.Name(), reloaded.Theme())
	}
	if reloaded.CreatorID() != alice.ID() {
		t.Fatal("creator must be immutable")
	}
}

func TestDraftAndPublish(t *testing.T) {

	userDB, groupDB, postDB := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")
	g, _ := groupDB.InsertGroup("test_group", core.General, alice, false)

	draft, err := postDB.InsertPost("draft", "text", alice, g, true)
	if err != nil {
		t.Fatalf("insert draft: %v", err)
	}
	if _, published := draft.Created(); published {
		t.Fatal("draft must have no created timestamp")
	}

	published, err := postDB.InsertPost("published", "text", alice, g, false)
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}
	if _, ok := published.Created(); !ok {
		t.Fatal("published post must have a created timestamp")
	}

	drafts, _ := postDB.GetDrafts(alice)
	if len(drafts) != 1 || drafts[0].Title() != "draft" {
		t.Fatalf("got %d drafts", len(drafts))
	}

	if err := postDB.Publish(draft); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok := draft.Created(); !ok {
		t.Fatal("published draft must have a created timestamp")
	}

	drafts, _ = postDB.GetDrafts(alice)
	if len(drafts) != 0 {
		t.Fatalf("got %d drafts, want 0", len(drafts))
	}
}

func TestGetPublishedHidesPrivatePosts(t *testing.T) {

	userDB, groupDB, postDB := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")
	bob := insertTestUser(t, userDB, "bob")

	private, _ := groupDB.InsertGroup("private", core.General, alice, true)
	groupDB.Join(private, alice)
	public, _ := groupDB.InsertGroup("public", core.General, alice, false)
	groupDB.Join(public, alice)

	postDB.InsertPost("secret", "text", alice, private, false)
	postDB.InsertPost("open", "text", alice, public, false)

	posts, err := postDB.GetPublished(bob, 100, 0)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if len(posts) != 1 || posts[0].Title() != "open" {
		t.Fatalf("bob should see one post, got %d", len(posts))
	}

	posts, _ = postDB.GetPublished(alice, 100, 0)
	if len(posts) != 2 {
		t.Fatalf("alice should see both posts, got %d", len(posts))
	}

	posts, _ = postDB.GetPublished(nil, 100, 0)
	if len(posts) != 1 {
		t.Fatalf("anonymous should see one post, got %d", len(posts))
	}
}

func TestPostInheritsPrivacy(t *testing.T) {

	userDB, groupDB, postDB := testDBs(t)
	alice := insertTestUser(t, userDB, "alice")

	private, _ := groupDB.InsertGroup("private", core.General, alice, true)
	p, err := postDB.InsertPost("secret", "text", alice, private, false)
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}
	if !p.Private() {
		t.Fatal("post must inherit the privacy flag of its group")
	}
}
