package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var postsTmpl = tmpl(`<h1>Posts</h1>

	{{ range .Posts }}
		<div class="post-teaser">
			<h2><a href="posts/{{ .Post.ID }}">{{ .Post.Title }}</a></h2>
			<p class="muted">by {{ .Creator.Name }} in <a href="groups/{{ .Group.ID }}/">{{ .Group.Name }}</a>, {{ Ago .CreatedTs }}</p>
			<p>{{ Teaser .Post.Text }}</p>
		</div>
	{{ else }}
		<p>No posts yet.</p>
	{{ end }}`)

type postsItem struct {
	Post    core.DBPost
	Creator core.DBUser
	Group   core.DBGroup
}

func (item postsItem) CreatedTs() int64 {
	ts, _ := item.Post.Created()
	return ts
}

type postsData struct {
	*Route
}

func (data *postsData) Posts() ([]postsItem, error) {

	posts, err := data.db.GetPublished(data.User, 10000, 0) // assuming there are not more than 10k posts
	if err != nil {
		return nil, err
	}

	var items = []postsItem{}
	for _, p := range posts {
		creator, err := data.db.GetUser(p.CreatorID())
		if err != nil {
			return nil, err
		}
		group, err := data.db.GetGroup(p.GroupID())
		if err != nil {
			return nil, err
		}
		items = append(items, postsItem{p, creator, group})
	}
	return items, nil
}

func posts(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return postsTmpl.Execute(w, &postsData{
		Route: r,
	})
}
