package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/runtiger2024/buy1688-sub000/internal/orders"
)

const headerIdempotencyKey = "Idempotency-Key"

func (a *API) createStandardOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateStandardRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	created, err := a.Orders.CreateStandard(r.Context(), claims(r), req, r.Header.Get(headerIdempotencyKey))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) createAssistOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateAssistRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	created, err := a.Orders.CreateAssist(r.Context(), claims(r), req, r.Header.Get(headerIdempotencyKey))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) sharedOrder(w http.ResponseWriter, r *http.Request) {
	v, err := a.Orders.GetByShareToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) myOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.ListMine(r.Context(), claims(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (a *API) operatorOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.ListForOperator(r.Context(), claims(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (a *API) adminOrders(w http.ResponseWriter, r *http.Request) {
	var f orders.ListFilter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		s := orders.Status(v)
		f.Status = &s
	}
	if v := q.Get("payment_status"); v != "" {
		p := orders.PaymentStatus(v)
		f.PaymentStatus = &p
	}
	list, err := a.Orders.ListAll(r.Context(), claims(r), f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	o, err := a.Orders.Get(r.Context(), claims(r), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var p orders.Patch
	if err := decode(w, r, &p); err != nil {
		a.writeError(w, r, err)
		return
	}
	o, err := a.Orders.Update(r.Context(), claims(r), id, p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type paymentProofReq struct {
	Reference string `json:"reference"`
}

func (a *API) submitPaymentProof(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req paymentProofReq
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	o, err := a.Orders.SubmitPaymentProof(r.Context(), claims(r), id, req.Reference)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func nonNil(list []orders.Order) []orders.Order {
	if list == nil {
		return []orders.Order{}
	}
	return list
}
