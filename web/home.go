package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var homeTmpl = tmpl(`<h1>agora</h1>

	{{ if .LoggedIn }}
		<p>Hello {{ .User.Name }}. Have a look at the <a href="groups/">groups</a> or read some <a href="posts/">posts</a>.</p>
	{{ else }}
		<p><a href="login/">Login</a> or <a href="register/">register</a> to join the discussion.</p>
	{{ end }}`)

func home(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return homeTmpl.Execute(w, r)
}
