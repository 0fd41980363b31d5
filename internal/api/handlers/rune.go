package handlers

import (
	"net/http"

	"github.com/dom/matchup-companion/internal/service"
)

type RuneHandler struct {
	runeService *service.RuneService
}

func NewRuneHandler(runeService *service.RuneService) *RuneHandler {
	return &RuneHandler{runeService: runeService}
}

func (h *RuneHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	runes, err := h.runeService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, "rune.GetAll", err)
		return
	}
	writeJSON(w, http.StatusOK, runes)
}

func (h *RuneHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.runeService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "rune.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RuneHandler) GetKeystones(w http.ResponseWriter, r *http.Request) {
	runes, err := h.runeService.GetKeystones(r.Context())
	if err != nil {
		writeServiceError(w, "rune.GetKeystones", err)
		return
	}
	writeJSON(w, http.StatusOK, runes)
}

func (h *RuneHandler) GetTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.runeService.GetTrees(r.Context())
	if err != nil {
		writeServiceError(w, "rune.GetTrees", err)
		return
	}
	writeJSON(w, http.StatusOK, trees)
}

func (h *RuneHandler) GetByTree(w http.ResponseWriter, r *http.Request) {
	treeID, err := intParam(r, "treeId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runes, err := h.runeService.GetByTree(r.Context(), treeID)
	if err != nil {
		writeServiceError(w, "rune.GetByTree", err)
		return
	}
	writeJSON(w, http.StatusOK, runes)
}

func (h *RuneHandler) GetByTreeAndSlot(w http.ResponseWriter, r *http.Request) {
	treeID, err := intParam(r, "treeId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slot, err := intParam(r, "slot")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runes, err := h.runeService.GetByTreeAndSlot(r.Context(), treeID, slot)
	if err != nil {
		writeServiceError(w, "rune.GetByTreeAndSlot", err)
		return
	}
	writeJSON(w, http.StatusOK, runes)
}
