package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/medmarket/internal/api"
	"github.com/RoyceAzure/lab/medmarket/internal/service/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService catalog.IService
}

func NewCatalogHandler(catalogService catalog.IService) *CatalogHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &CatalogHandler{catalogService: catalogService}
}

// GetProduct 商品目錄快照(現價/庫存/所屬店家)
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalogService.GetSnapshot(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, snapshot)
}
