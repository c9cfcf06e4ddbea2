package httpx

import (
	"net/http"

	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/users"
)

func claims(r *http.Request) auth.Claims {
	c, _ := auth.FromContext(r.Context())
	return c
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in users.RegisterInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.Users.Register(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	s, err := a.Users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.BearerToken(r); token != "" {
		if err := a.Users.Logout(r.Context(), token); err != nil {
			a.writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.Users.Me(r.Context(), claims(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := a.Users.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var in users.CreateStaffInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.Users.CreateStaff(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var p users.Patch
	if err := decode(w, r, &p); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.Users.Update(r.Context(), claims(r), id, p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
