package handler

import "net/http"

func (h *Handler) GetAllStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.repository.GetActiveStoresByTenant(h.config.TenantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店列表成功", stores)
}
