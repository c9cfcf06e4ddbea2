package httpx

import (
	"net/http"

	"github.com/runtiger2024/buy1688-sub000/internal/warehouses"
)

func (a *API) listActiveWarehouses(w http.ResponseWriter, r *http.Request) {
	list, err := a.Warehouses.ListActive(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) listAllWarehouses(w http.ResponseWriter, r *http.Request) {
	list, err := a.Warehouses.ListAll(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var in warehouses.Input
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	wh, err := a.Warehouses.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wh)
}

func (a *API) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in warehouses.Input
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	wh, err := a.Warehouses.Update(r.Context(), id, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (a *API) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.Warehouses.Delete(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
