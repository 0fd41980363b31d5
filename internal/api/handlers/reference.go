package handlers

import (
	"net/http"

	"github.com/dom/matchup-companion/internal/service"
)

// ReferenceHandler serves roles and summoner spells.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.referenceService.GetRoles(r.Context())
	if err != nil {
		writeServiceError(w, "reference.GetRoles", err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *ReferenceHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.referenceService.GetRole(r.Context(), id)
	if err != nil {
		writeServiceError(w, "reference.GetRole", err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *ReferenceHandler) GetSummonerSpells(w http.ResponseWriter, r *http.Request) {
	spells, err := h.referenceService.GetSummonerSpells(r.Context())
	if err != nil {
		writeServiceError(w, "reference.GetSummonerSpells", err)
		return
	}
	writeJSON(w, http.StatusOK, spells)
}

func (h *ReferenceHandler) GetSummonerSpell(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spell, err := h.referenceService.GetSummonerSpell(r.Context(), id)
	if err != nil {
		writeServiceError(w, "reference.GetSummonerSpell", err)
		return
	}
	writeJSON(w, http.StatusOK, spell)
}
