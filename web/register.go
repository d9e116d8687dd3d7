package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/agora/core"
)

var registerTmpl = tmpl(`<h1>Register</h1>
	<form method="post" class="narrow-form">
		<div class="form-group">
			<label>Username</label>
			<input type="text" class="form-control" name="username" value="{{ .Username }}" required autofocus>
		</div>
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="email" value="{{ .Email }}">
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password1" required>
		</div>
		<div class="form-group">
			<label>Repeat password</label>
			<input type="password" class="form-control" name="password2" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="register">Register</button>
		</div>
	</form>`)

type registerData struct {
	*Route
	Username string
	Email    string
}

func register(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		_, err := r.db.Register(
			req.PostFormValue("username"),
			req.PostFormValue("email"),
			req.PostFormValue("password1"),
			req.PostFormValue("password2"),
		)
		switch err.(type) {
		case nil:
			// like the login-failure literal, the body of the 400
			// response is part of the contract, so registration does
			// not redirect through a flash message
			r.SeeOther("/")
			return nil
		case core.ValidationError:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return nil
		default:
			return err
		}
	}

	return registerTmpl.Execute(w, &registerData{
		Route: r,
	})
}
