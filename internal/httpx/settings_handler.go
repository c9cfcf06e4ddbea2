package httpx

import "net/http"

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	m, err := a.Settings.Get(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Public())
}

func (a *API) updateSettings(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	m, err := a.Settings.Update(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Public())
}
