// Package web contains the HTTP surface of agora: an httprouter-based
// site router whose handlers gate every mutation through the core rules.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
	"github.com/wansing/agora/util"
)

// A Route is the per-request context passed to every handler.
type Route struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *Route, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = &Route{
			Request: db.NewRequest(w, req),
			Prefix:  prefix + "/",
			db:      db,
		}
		defer r.Cleanup()

		if requireLoggedIn && !r.LoggedIn() {
			r.SeeOther("/login/?next=%s", url.QueryEscape(req.URL.Path))
			return
		}

		if err := f(w, req, r, params); err != nil {
			switch err.(type) {
			case core.ValidationError:
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
			case core.AuthorizationError:
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(err.Error()))
			default:
				if errors.Is(err, core.ErrNotFound) {
					http.NotFound(w, req)
					return
				}
				errorTmpl.Execute(w, struct {
					*Route
					Err error
				}{
					Route: r,
					Err:   err,
				})
			}
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

// NewRouter builds the site router. prefix must be "" or "/stripped-prefix",
// it is prepended to links via the base element.
func NewRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, home))
	GETAndPOST("/login/", middleware(db, prefix, false, login))
	GETAndPOST("/register/", middleware(db, prefix, false, register))

	// private
	GETAndPOST("/logout/", middleware(db, prefix, true, logout))
	router.GET("/groups/", middleware(db, prefix, true, groups))
	// httprouter can't register the static /groups/new/ next to the
	// wildcard, so the group handler dispatches on id == "new"
	GETAndPOST("/groups/:id/", middleware(db, prefix, true, group))
	router.POST("/groups/:id/update/", middleware(db, prefix, true, groupUpdate))
	router.POST("/groups/:id/delete/", middleware(db, prefix, true, groupDelete))
	router.POST("/groups/:id/invite/", middleware(db, prefix, true, groupInvite))
	GETAndPOST("/groups/:id/new_post/", middleware(db, prefix, true, newPost))
	router.GET("/posts/", middleware(db, prefix, true, posts))
	router.GET("/posts/:id", middleware(db, prefix, true, post))
	GETAndPOST("/posts/:id/update/", middleware(db, prefix, true, postUpdate))
	router.POST("/posts/:id/delete/", middleware(db, prefix, true, postDelete))
	router.POST("/posts/:id/publish/", middleware(db, prefix, true, postPublish))
	router.GET("/drafts/", middleware(db, prefix, true, drafts))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(siteTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var siteTmpl = template.Must(template.New("site").Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<title>agora</title>
		<link rel="stylesheet" type="text/css" href="static/style.css">
	</head>
	<body>

		<nav class="navbar">
			<a class="nav-link" href="">agora</a>

			{{ if .LoggedIn }}
				<a class="nav-link" href="groups/">Groups</a>
				<a class="nav-link" href="posts/">Posts</a>
				<a class="nav-link" href="drafts/">Drafts</a>
				<span class="nav-user">{{ .User.Name }}</span>
				<a class="nav-link" href="logout/">Logout</a>
			{{ else }}
				<a class="nav-link" href="login/">Login</a>
				<a class="nav-link" href="register/">Register</a>
			{{ end }}
		</nav>

		<div class="container">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`)).Funcs(
	template.FuncMap{
		"Ago": util.Ago,
		"Markdown": func(text string) template.HTML {
			return renderMarkdown(text)
		},
		"Teaser": func(text string) string {
			return teaser(text)
		},
		"ThemeOptions": func(selected core.Theme) template.HTML {
			var htm string
			for _, theme := range core.Themes {
				htm += `<option value="` + string(theme) + `"`
				if theme == selected {
					htm += ` selected`
				}
				htm += `>` + theme.String() + `</option>`
			}
			return template.HTML(htm)
		},
	},
)
