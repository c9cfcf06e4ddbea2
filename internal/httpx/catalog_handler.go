package httpx

import (
	"net/http"
	"strconv"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/catalog"
)

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := a.Catalog.Categories(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.Catalog.CreateCategory(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in catalog.CategoryInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.Catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.Catalog.DeleteCategory(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isStaff reports whether an optional-auth request came from staff.
func isStaff(r *http.Request) bool {
	c, ok := auth.FromContext(r.Context())
	return ok && c.IsStaff()
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	var f catalog.ProductFilter
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			a.writeError(w, r, apperr.Validation("invalid category_id"))
			return
		}
		f.CategoryID = &id
	}
	f.IncludeArchived = isStaff(r) && r.URL.Query().Get("include_archived") == "true"
	list, err := a.Catalog.Products(r.Context(), f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Catalog.Product(r.Context(), id, isStaff(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var in catalog.ProductInput
	if err := decode(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.Catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) archiveProduct(w http.ResponseWriter, r *http.Request) {
	a.setArchived(w, r, true)
}

func (a *API) unarchiveProduct(w http.ResponseWriter, r *http.Request) {
	a.setArchived(w, r, false)
}

func (a *API) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var p catalog.Product
	if archived {
		p, err = a.Catalog.Archive(r.Context(), id)
	} else {
		p, err = a.Catalog.Unarchive(r.Context(), id)
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
