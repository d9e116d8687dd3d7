package web

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" class="narrow-form">
		<div class="form-group">
			<label>Username</label>
			<input type="text" class="form-control" name="username" value="{{ .Username }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="login">Login</button>
		</div>
	</form>`)

type loginData struct {
	*Route
	Username string
}

func login(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var username string

	if req.Method == http.MethodPost {

		username = req.PostFormValue("username")
		password := req.PostFormValue("password")

		if err := r.Login(username, password); err == nil {
			var next = req.URL.Query().Get("next")
			if !strings.HasPrefix(next, "/") { // the redirect target must stay on this site
				next = "/"
			}
			r.SeeOther(next)
			return nil
		}

		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(r.db.Messages.LoginFailed))
		return nil
	}

	return loginTmpl.Execute(w, &loginData{
		Route:    r,
		Username: username,
	})
}
