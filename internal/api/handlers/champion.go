package handlers

import (
	"net/http"

	"github.com/dom/matchup-companion/internal/service"
)

type ChampionHandler struct {
	championService *service.ChampionService
}

func NewChampionHandler(championService *service.ChampionService) *ChampionHandler {
	return &ChampionHandler{championService: championService}
}

func (h *ChampionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	champions, err := h.championService.GetAllChampions(r.Context())
	if err != nil {
		writeServiceError(w, "champion.GetAll", err)
		return
	}
	writeJSON(w, http.StatusOK, champions)
}

func (h *ChampionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	champion, err := h.championService.GetChampion(r.Context(), id)
	if err != nil {
		writeServiceError(w, "champion.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, champion)
}

func (h *ChampionHandler) GetByRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := intParam(r, "roleId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	champions, err := h.championService.GetChampionsByRole(r.Context(), roleID)
	if err != nil {
		writeServiceError(w, "champion.GetByRole", err)
		return
	}
	writeJSON(w, http.StatusOK, champions)
}
