package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/matchup-companion/internal/service"
	"github.com/go-chi/chi/v5"
)

type ItemHandler struct {
	itemService *service.ItemService
}

func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.GetPurchasable(r.Context())
	if err != nil {
		writeServiceError(w, "item.GetAll", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.itemService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "item.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) GetByRiotID(w http.ResponseWriter, r *http.Request) {
	riotID, err := strconv.Atoi(chi.URLParam(r, "riotId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "riotId must be an integer")
		return
	}

	item, err := h.itemService.GetByRiotID(r.Context(), riotID)
	if err != nil {
		writeServiceError(w, "item.GetByRiotID", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) GetCompleted(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.GetCompleted(r.Context())
	if err != nil {
		writeServiceError(w, "item.GetCompleted", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, "item.Search", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetByRiotIDs(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.GetByRiotIDs(r.Context(), r.URL.Query().Get("ids"))
	if err != nil {
		writeServiceError(w, "item.GetByRiotIDs", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
