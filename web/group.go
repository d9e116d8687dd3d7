package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var groupTmpl = tmpl(`<h1>Group &raquo;{{ .Selected.Name }}&laquo;</h1>

	<p>
		{{ .Selected.Theme }}
		{{ if .Selected.Private }}&middot; private{{ end }}
		&middot; created {{ Ago .Selected.Created }}
		&middot; {{ .PostCount }} posts
	</p>

	<form method="post">
		{{ if .IsMember }}
			<button type="submit" class="btn btn-secondary" name="toggle">Leave group</button>
		{{ else }}
			<button type="submit" class="btn btn-primary" name="toggle">Join group</button>
		{{ end }}
	</form>

	<h2>Members</h2>

	<ul>
		{{ range .Members }}
			<li>{{ .User.Name }} <span class="muted">joined {{ Ago .Joined }}</span></li>
		{{ else }}
			No members.
		{{ end }}
	</ul>

	<h2>Invite member</h2>

	<form method="post" action="groups/{{ .Selected.ID }}/invite/" class="form-inline">
		<div class="form-group">
			<input class="form-control" name="username" placeholder="Username">
			<button type="submit" class="btn btn-primary" name="invite">Invite</button>
		</div>
	</form>

	<h2>Posts</h2>

	<ul>
		{{ range .Posts }}
			<li><a href="posts/{{ .ID }}">{{ .Title }}</a></li>
		{{ else }}
			No posts.
		{{ end }}
	</ul>

	{{ if .IsMember }}
		<p><a class="btn btn-primary" href="groups/{{ .Selected.ID }}/new_post/">New post</a></p>
	{{ end }}

	{{ if .IsCreator }}

		<h2>Update group</h2>

		<form method="post" action="groups/{{ .Selected.ID }}/update/" class="narrow-form">
			<div class="form-group">
				<label>Name</label>
				<input type="text" class="form-control" name="name" value="{{ .Selected.Name }}" required>
			</div>
			<div class="form-group">
				<label>Theme</label>
				<select class="form-control" name="theme">
					{{ ThemeOptions .Selected.Theme }}
				</select>
			</div>
			<div class="form-group">
				<button type="submit" class="btn btn-primary" name="update">Update</button>
			</div>
		</form>

	{{ end }}

	<h2>Delete group</h2>

	<form method="post" action="groups/{{ .Selected.ID }}/delete/">
		<button type="submit" class="btn btn-danger" name="delete">Delete group</button>
	</form>`)

type groupMember struct {
	User   core.DBUser
	Joined int64
}

type groupData struct {
	*Route
	Selected  core.DBGroup
	IsMember  bool
	IsCreator bool
}

func (data *groupData) Members() ([]groupMember, error) {

	memberIDs, err := data.Selected.Members()
	if err != nil {
		return nil, err
	}

	var members = []groupMember{}
	for memberID, joined := range memberIDs {
		member, err := data.db.GetUser(memberID)
		if err != nil {
			return nil, err
		}
		members = append(members, groupMember{member, joined})
	}

	return members, nil
}

func (data *groupData) Posts() ([]core.DBPost, error) {
	return data.db.GetByGroup(data.Selected)
}

func (data *groupData) PostCount() (int, error) {
	return data.db.CountByGroup(data.Selected)
}

func openGroup(r *Route, params httprouter.Params) (core.DBGroup, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, core.ErrNotFound
	}
	return r.db.GetGroup(id)
}

func renderGroup(w http.ResponseWriter, r *Route, selected core.DBGroup) error {

	member, err := core.IsMember(r.User, selected)
	if err != nil {
		return err
	}

	return groupTmpl.Execute(w, &groupData{
		Route:     r,
		Selected:  selected,
		IsMember:  member,
		IsCreator: core.IsCreator(r.User.ID(), selected),
	})
}

// group shows a group. POST toggles the membership of the acting user:
// joining if they are not a member, leaving if they are.
func group(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	// httprouter routes /groups/new/ here, see NewRouter
	if params.ByName("id") == "new" {
		return groupNew(w, req, r, params)
	}

	selected, err := openGroup(r, params)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		joined, err := r.db.ToggleMembership(selected, r.User)
		if err != nil {
			return err
		}

		if joined {
			r.Success("you joined %s", selected.Name())
		} else {
			r.Success("you left %s", selected.Name())
		}
		r.SeeOther("/groups/%d/", selected.ID())
		return nil
	}

	return renderGroup(w, r, selected)
}

func groupUpdate(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openGroup(r, params)
	if err != nil {
		return err
	}

	err = r.db.UpdateGroup(selected, req.PostFormValue("name"), core.Theme(req.PostFormValue("theme")), r.User)
	if err != nil {
		switch err.(type) {
		case core.AuthorizationError, core.ValidationError:
			// re-render the group page with the literal
			r.Danger(err)
			return renderGroup(w, r, selected)
		default:
			return err
		}
	}

	r.Success("group %s has been updated", selected.Name())
	r.SeeOther("/groups/%d/", selected.ID())
	return nil
}

func groupDelete(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openGroup(r, params)
	if err != nil {
		return err
	}

	if err := r.db.DeleteGroup(selected, r.User); err != nil {
		return err
	}

	r.Success("group %s has been deleted", selected.Name())
	r.SeeOther("/groups/")
	return nil
}

func groupInvite(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openGroup(r, params)
	if err != nil {
		return err
	}

	outcome, err := r.db.Invite(selected, req.PostFormValue("username"))
	if err != nil {
		return err
	}

	if outcome == r.db.Messages.InviteDone {
		r.Success("%s", outcome)
	} else {
		r.Danger(errors.New(outcome))
	}
	return renderGroup(w, r, selected)
}
