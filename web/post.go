package web

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var postTmpl = tmpl(`<h1>{{ .Selected.Title }}</h1>

	<p class="muted">
		by {{ .Creator.Name }}
		in <a href="groups/{{ .Group.ID }}/">{{ .Group.Name }}</a>
		{{ if .Published }}&middot; {{ .FormatDateTime .CreatedTs }}{{ else }}&middot; draft{{ end }}
	</p>

	<div class="post-body">
		{{ Markdown .Selected.Text }}
	</div>

	{{ if .IsCreator }}
		<p><a class="btn btn-secondary" href="posts/{{ .Selected.ID }}/update/">Edit post</a></p>
	{{ end }}

	<form method="post" action="posts/{{ .Selected.ID }}/delete/">
		<button type="submit" class="btn btn-danger" name="delete">Delete post</button>
	</form>`)

type postData struct {
	*Route
	Selected core.DBPost
	Creator  core.DBUser
	Group    core.DBGroup
}

func (data *postData) Published() bool {
	_, published := data.Selected.Created()
	return published
}

func (data *postData) CreatedTs() int64 {
	ts, _ := data.Selected.Created()
	return ts
}

func (data *postData) IsCreator() bool {
	return core.IsCreator(data.User.ID(), data.Selected)
}

func openPost(r *Route, params httprouter.Params) (core.DBPost, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, core.ErrNotFound
	}
	return r.db.GetPost(id)
}

// openVisiblePost additionally hides posts the acting user may not see:
// private posts are visible to group members and the creator only, drafts
// to the creator only.
func openVisiblePost(r *Route, params httprouter.Params) (core.DBPost, core.DBGroup, error) {

	selected, err := openPost(r, params)
	if err != nil {
		return nil, nil, err
	}

	group, err := r.db.GetGroup(selected.GroupID())
	if err != nil {
		return nil, nil, err
	}

	if core.IsCreator(r.User.ID(), selected) {
		return selected, group, nil
	}

	if _, published := selected.Created(); !published {
		return nil, nil, core.ErrNotFound
	}

	if selected.Private() {
		member, err := core.IsMember(r.User, group)
		if err != nil {
			return nil, nil, err
		}
		if !member {
			return nil, nil, core.ErrNotFound
		}
	}

	return selected, group, nil
}

func post(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, group, err := openVisiblePost(r, params)
	if err != nil {
		return err
	}

	creator, err := r.db.GetUser(selected.CreatorID())
	if err != nil {
		return err
	}

	return postTmpl.Execute(w, &postData{
		Route:    r,
		Selected: selected,
		Creator:  creator,
		Group:    group,
	})
}

var postUpdateTmpl = tmpl(`<h1>Edit post</h1>

	<form method="post">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .Selected.Title }}" required>
		</div>
		<div class="form-group">
			<label>Text</label>
			<textarea class="form-control" name="text" rows="12">{{ .Selected.Text }}</textarea>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="update">Save</button>
		</div>
	</form>`)

type postUpdateData struct {
	*Route
	Selected core.DBPost
}

func postUpdate(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, _, err := openVisiblePost(r, params)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		err := r.db.UpdatePost(selected, req.PostFormValue("title"), req.PostFormValue("text"), r.User)
		if err != nil {
			switch err.(type) {
			case core.AuthorizationError, core.ValidationError:
				// re-render the form with the literal
				r.Danger(err)
			default:
				return err
			}
		} else {
			r.SeeOther("/posts/%d", selected.ID())
			return nil
		}
	}

	return postUpdateTmpl.Execute(w, &postUpdateData{
		Route:    r,
		Selected: selected,
	})
}

func postDelete(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openPost(r, params)
	if err != nil {
		return err
	}

	if err := r.db.DeletePost(selected, r.User); err != nil {
		return err
	}

	r.Success("post %s has been deleted", selected.Title())
	r.SeeOther("/posts/")
	return nil
}

func postPublish(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openPost(r, params)
	if err != nil {
		return err
	}

	if err := r.db.PublishPost(selected); err != nil {
		return err
	}

	r.Success("post %s has been published", selected.Title())
	r.SeeOther("/drafts/")
	return nil
}

var draftsTmpl = tmpl(`<h1>Drafts</h1>

	<table class="table">
		<tr>
			<th>Title</th>
			<th></th>
		</tr>
		{{ range .Drafts }}
			<tr>
				<td><a href="posts/{{ .ID }}">{{ .Title }}</a></td>
				<td>
					<form method="post" action="posts/{{ .ID }}/publish/">
						<button type="submit" class="btn btn-primary" name="publish">Publish</button>
					</form>
				</td>
			</tr>
		{{ else }}
			<tr><td colspan="2">No drafts.</td></tr>
		{{ end }}
	</table>`)

type draftsData struct {
	*Route
}

func (data *draftsData) Drafts() ([]core.DBPost, error) {
	return data.db.GetDrafts(data.User)
}

func drafts(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return draftsTmpl.Execute(w, &draftsData{
		Route: r,
	})
}
