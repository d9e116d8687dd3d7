package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var newPostTmpl = tmpl(`<h1>New post in &raquo;{{ .Selected.Name }}&laquo;</h1>

	<form method="post">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .Title }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Text</label>
			<textarea class="form-control" name="text" rows="12">{{ .Text }}</textarea>
		</div>
		<div class="form-group">
			<label><input type="checkbox" name="publish" value="true"{{ if .Draft }} checked{{ end }}> Save as draft</label>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="create">Create</button>
		</div>
	</form>`)

type newPostData struct {
	*Route
	Selected core.DBGroup
	Title    string
	Text     string
	Draft    bool
}

func newPost(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	selected, err := openGroup(r, params)
	if err != nil {
		return err
	}

	var title, text string
	var draft bool

	if req.Method == http.MethodPost {

		title = req.PostFormValue("title")
		text = req.PostFormValue("text")
		// historical polarity: a present "publish" value makes a draft
		draft = req.PostFormValue("publish") != ""

		_, err := r.db.CreatePost(title, text, r.User, selected, draft)
		if err != nil {
			switch err.(type) {
			case core.AuthorizationError, core.ValidationError:
				// re-render the form with the literal, keep the input
				r.Danger(err)
			default:
				return err
			}
		} else {
			r.SeeOther("/posts/")
			return nil
		}
	}

	return newPostTmpl.Execute(w, &newPostData{
		Route:    r,
		Selected: selected,
		Title:    title,
		Text:     text,
		Draft:    draft,
	})
}
