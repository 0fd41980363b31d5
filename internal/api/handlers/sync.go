package handlers

import (
	"net/http"

	"github.com/dom/matchup-companion/internal/service"
	log "github.com/sirupsen/logrus"
)

// SyncHandler exposes the Data Dragon import to administrators.
type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

type syncResponse struct {
	Message         string `json:"message"`
	ChampionsSynced *int   `json:"championsSynced,omitempty"`
	RunesSynced     *int   `json:"runesSynced,omitempty"`
	ItemsSynced     *int   `json:"itemsSynced,omitempty"`
	Language        string `json:"language"`
}

type syncAllResponse struct {
	Message string `json:"message"`
	*service.SyncResult
}

type syncErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type versionResponse struct {
	Version string `json:"version"`
}

func language(r *http.Request) string {
	if lang := r.URL.Query().Get("language"); lang != "" {
		return lang
	}
	return service.DefaultSyncLanguage
}

func (h *SyncHandler) writeSyncFailure(w http.ResponseWriter, op, what string, err error) {
	log.WithError(err).Error("[" + op + "] sync failed")
	writeJSON(w, http.StatusInternalServerError, syncErrorResponse{
		Message: "Failed to sync " + what,
		Error:   err.Error(),
	})
}

func (h *SyncHandler) SyncChampions(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	count, err := h.syncService.SyncChampions(r.Context(), lang)
	if err != nil {
		h.writeSyncFailure(w, "sync.SyncChampions", "champions", err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Message: "Champions synced", ChampionsSynced: &count, Language: lang})
}

func (h *SyncHandler) SyncRunes(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	count, err := h.syncService.SyncRunes(r.Context(), lang)
	if err != nil {
		h.writeSyncFailure(w, "sync.SyncRunes", "runes", err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Message: "Runes synced", RunesSynced: &count, Language: lang})
}

func (h *SyncHandler) SyncItems(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	count, err := h.syncService.SyncItems(r.Context(), lang)
	if err != nil {
		h.writeSyncFailure(w, "sync.SyncItems", "items", err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Message: "Items synced", ItemsSynced: &count, Language: lang})
}

func (h *SyncHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.SyncAll(r.Context(), language(r))
	if err != nil {
		h.writeSyncFailure(w, "sync.SyncAll", "game data", err)
		return
	}
	writeJSON(w, http.StatusOK, syncAllResponse{Message: "All game data synced", SyncResult: result})
}

func (h *SyncHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{Version: h.syncService.Version(r.Context())})
}
