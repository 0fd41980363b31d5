package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/matchup-companion/internal/api/middleware"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/google/uuid"
)

type MatchupHandler struct {
	matchupService *service.MatchupService
}

func NewMatchupHandler(matchupService *service.MatchupService) *MatchupHandler {
	return &MatchupHandler{matchupService: matchupService}
}

type CreateMatchupRequest struct {
	PlayerChampionID int     `json:"playerChampionId" validate:"required,gte=1"`
	EnemyChampionID  int     `json:"enemyChampionId" validate:"required,gte=1"`
	RoleID           int     `json:"roleId" validate:"required,gte=1"`
	Difficulty       string  `json:"difficulty" validate:"required,oneof=Easy Medium Hard Extreme"`
	GeneralAdvice    *string `json:"generalAdvice" validate:"omitempty,max=1000"`
}

type GetOrCreateMatchupRequest struct {
	PlayerChampionID int `json:"playerChampionId" validate:"required,gte=1"`
	EnemyChampionID  int `json:"enemyChampionId" validate:"required,gte=1"`
	RoleID           int `json:"roleId" validate:"required,gte=1"`
}

type UpdateMatchupRequest struct {
	Difficulty       string  `json:"difficulty" validate:"required,oneof=Easy Medium Hard Extreme"`
	GeneralAdvice    *string `json:"generalAdvice" validate:"omitempty,max=1000"`
	PrimaryTreeID    *int    `json:"primaryTreeId"`
	KeystoneID       *int    `json:"keystoneId"`
	PrimaryRune1ID   *int    `json:"primaryRune1Id"`
	PrimaryRune2ID   *int    `json:"primaryRune2Id"`
	PrimaryRune3ID   *int    `json:"primaryRune3Id"`
	SecondaryTreeID  *int    `json:"secondaryTreeId"`
	SecondaryRune1ID *int    `json:"secondaryRune1Id"`
	SecondaryRune2ID *int    `json:"secondaryRune2Id"`
	StatShards       *string `json:"statShards" validate:"omitempty,max=100"`
	StartingItems    *string `json:"startingItems" validate:"omitempty,max=200"`
	CoreItems        *string `json:"coreItems" validate:"omitempty,max=200"`
	SituationalItems *string `json:"situationalItems" validate:"omitempty,max=200"`
	FullBuildItems   *string `json:"fullBuildItems" validate:"omitempty,max=200"`
	SummonerSpell1ID *int    `json:"summonerSpell1Id"`
	SummonerSpell2ID *int    `json:"summonerSpell2Id"`
	AbilityOrder     *string `json:"abilityOrder" validate:"omitempty,max=100"`
	Strategy         *string `json:"strategy" validate:"omitempty,max=5000"`
}

func (req UpdateMatchupRequest) guide() domain.MatchupGuide {
	return domain.MatchupGuide{
		GeneralAdvice:    req.GeneralAdvice,
		PrimaryTreeID:    req.PrimaryTreeID,
		KeystoneID:       req.KeystoneID,
		PrimaryRune1ID:   req.PrimaryRune1ID,
		PrimaryRune2ID:   req.PrimaryRune2ID,
		PrimaryRune3ID:   req.PrimaryRune3ID,
		SecondaryTreeID:  req.SecondaryTreeID,
		SecondaryRune1ID: req.SecondaryRune1ID,
		SecondaryRune2ID: req.SecondaryRune2ID,
		StatShards:       req.StatShards,
		StartingItems:    req.StartingItems,
		CoreItems:        req.CoreItems,
		SituationalItems: req.SituationalItems,
		FullBuildItems:   req.FullBuildItems,
		SummonerSpell1ID: req.SummonerSpell1ID,
		SummonerSpell2ID: req.SummonerSpell2ID,
		AbilityOrder:     req.AbilityOrder,
		Strategy:         req.Strategy,
	}
}

type CreateTipRequest struct {
	MatchupID  int     `json:"matchupId" validate:"required,gte=1"`
	Category   string  `json:"category" validate:"required,oneof=EarlyGame MidGame LateGame Items Runes Abilities General"`
	Content    string  `json:"content" validate:"required,min=10,max=2000"`
	Priority   int     `json:"priority" validate:"omitempty,gte=1,lte=10"`
	AuthorName *string `json:"authorName" validate:"omitempty,max=100"`
}

type matchupNotFoundResponse struct {
	Message          string `json:"message"`
	PlayerChampionID int    `json:"playerChampionId"`
	EnemyChampionID  int    `json:"enemyChampionId"`
	RoleID           int    `json:"roleId"`
}

func (h *MatchupHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	matchups, err := h.matchupService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, "matchup.GetAll", err)
		return
	}
	writeJSON(w, http.StatusOK, matchups)
}

func (h *MatchupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchup, err := h.matchupService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "matchup.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, matchup)
}

func (h *MatchupHandler) Search(w http.ResponseWriter, r *http.Request) {
	playerID, err := queryInt(r, "playerChampionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	enemyID, err := queryInt(r, "enemyChampionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	roleID, err := queryInt(r, "roleId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchup, err := h.matchupService.Search(r.Context(), playerID, enemyID, roleID)
	if err != nil {
		if errors.Is(err, domain.ErrMatchupNotFound) {
			writeJSON(w, http.StatusNotFound, matchupNotFoundResponse{
				Message:          "No matchup exists for these champions and role",
				PlayerChampionID: playerID,
				EnemyChampionID:  enemyID,
				RoleID:           roleID,
			})
			return
		}
		writeServiceError(w, "matchup.Search", err)
		return
	}
	writeJSON(w, http.StatusOK, matchup)
}

func (h *MatchupHandler) GetByChampion(w http.ResponseWriter, r *http.Request) {
	championID, err := intParam(r, "championId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchups, err := h.matchupService.GetByPlayerChampion(r.Context(), championID)
	if err != nil {
		writeServiceError(w, "matchup.GetByChampion", err)
		return
	}
	writeJSON(w, http.StatusOK, matchups)
}

// writeReferenceError answers 400 for unknown champions or roles named in
// a request body. Other errors fall through to writeServiceError.
func writeReferenceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrChampionNotFound) || errors.Is(err, domain.ErrRoleNotFound) {
		writeError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}
	writeServiceError(w, op, err)
}

func (h *MatchupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchup, err := h.matchupService.Create(r.Context(), service.CreateMatchupInput{
		PlayerChampionID: req.PlayerChampionID,
		EnemyChampionID:  req.EnemyChampionID,
		RoleID:           req.RoleID,
		Difficulty:       domain.Difficulty(req.Difficulty),
		GeneralAdvice:    req.GeneralAdvice,
	}, creatorID(r))
	if err != nil {
		writeReferenceError(w, "matchup.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, matchup)
}

func (h *MatchupHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	var req GetOrCreateMatchupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matchup, _, err := h.matchupService.GetOrCreate(r.Context(), req.PlayerChampionID, req.EnemyChampionID, req.RoleID, creatorID(r))
	if err != nil {
		writeReferenceError(w, "matchup.GetOrCreate", err)
		return
	}
	writeJSON(w, http.StatusOK, matchup)
}

// authorizeEdit answers 404 or 403 and returns false when the caller may
// not modify the matchup.
func (h *MatchupHandler) authorizeEdit(w http.ResponseWriter, r *http.Request, id int, op string) bool {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return false
	}

	allowed, err := h.matchupService.CanEdit(r.Context(), id, principal.UserID, principal.IsAdmin())
	if err != nil {
		writeServiceError(w, op, err)
		return false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "Only the creator of this matchup or an admin can change it")
		return false
	}
	return true
}

func (h *MatchupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateMatchupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.authorizeEdit(w, r, id, "matchup.Update") {
		return
	}

	matchup, err := h.matchupService.Update(r.Context(), id, service.UpdateMatchupInput{
		Difficulty: domain.Difficulty(req.Difficulty),
		Guide:      req.guide(),
	})
	if err != nil {
		writeServiceError(w, "matchup.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, matchup)
}

func (h *MatchupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.authorizeEdit(w, r, id, "matchup.Delete") {
		return
	}

	if err := h.matchupService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "matchup.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchupHandler) AddTip(w http.ResponseWriter, r *http.Request) {
	var req CreateTipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	authorName := req.AuthorName
	if principal, ok := middleware.GetPrincipal(r.Context()); ok && authorName == nil && principal.DisplayName != "" {
		name := principal.DisplayName
		authorName = &name
	}

	matchup, err := h.matchupService.AddTip(r.Context(), service.AddTipInput{
		MatchupID:  req.MatchupID,
		Category:   domain.TipCategory(req.Category),
		Content:    req.Content,
		Priority:   req.Priority,
		AuthorName: authorName,
	}, creatorID(r))
	if err != nil {
		writeServiceError(w, "matchup.AddTip", err)
		return
	}
	writeJSON(w, http.StatusOK, matchup)
}

func creatorID(r *http.Request) *uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}
	return &userID
}
