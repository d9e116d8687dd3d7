package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var groupsTmpl = tmpl(`<h1>Groups</h1>

	<p><a class="btn btn-primary" href="groups/new/">Create group</a></p>

	<table class="table">
		<tr>
			<th>Name</th>
			<th>Theme</th>
			<th>Members</th>
			<th>Created</th>
		</tr>
		{{ range .Groups }}
			<tr>
				<td><a href="groups/{{ .ID }}/">{{ .Name }}</a>{{ if .Private }} <span class="badge">private</span>{{ end }}</td>
				<td>{{ .Theme }}</td>
				<td>{{ .MemberCount }}</td>
				<td>{{ Ago .Created }}</td>
			</tr>
		{{ else }}
			<tr><td colspan="4">No groups yet.</td></tr>
		{{ end }}
	</table>`)

type groupsItem struct {
	core.DBGroup
	MemberCount int
}

type groupsData struct {
	*Route
}

func (data *groupsData) Groups() ([]groupsItem, error) {

	groups, err := data.db.GetAllGroups(10000, 0) // assuming there are not more than 10k groups
	if err != nil {
		return nil, err
	}

	var items = []groupsItem{}
	for _, g := range groups {
		members, err := g.Members()
		if err != nil {
			return nil, err
		}
		items = append(items, groupsItem{g, len(members)})
	}
	return items, nil
}

func groups(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return groupsTmpl.Execute(w, &groupsData{
		Route: r,
	})
}

var groupNewTmpl = tmpl(`<h1>Create group</h1>

	<form method="post" class="narrow-form">
		<div class="form-group">
			<label>Name</label>
			<input type="text" class="form-control" name="name" value="{{ .Name }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Theme</label>
			<select class="form-control" name="theme">
				{{ ThemeOptions .Theme }}
			</select>
		</div>
		<div class="form-group">
			<label><input type="checkbox" name="private" value="true"{{ if .Private }} checked{{ end }}> Private group</label>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="create">Create</button>
		</div>
	</form>`)

type groupNewData struct {
	*Route
	Name    string
	Theme   core.Theme
	Private bool
}

func groupNew(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		_, err := r.db.CreateGroup(
			req.PostFormValue("name"),
			core.Theme(req.PostFormValue("theme")),
			req.PostFormValue("private") != "",
			r.User,
		)
		if err != nil {
			return err // a ValidationError becomes the 400 literal
		}

		r.Success("group %s has been created", req.PostFormValue("name"))
		r.SeeOther("/groups/")
		return nil
	}

	return groupNewTmpl.Execute(w, &groupNewData{
		Route: r,
		Theme: core.General,
	})
}
