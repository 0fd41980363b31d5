package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/matchup-companion/internal/api/middleware"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/service"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email,max=256"`
	UserName        string  `json:"userName" validate:"required,min=3,max=50"`
	Password        string  `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string  `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	DisplayName     *string `json:"displayName" validate:"omitempty,max=100"`
	PreferredRoleID *int    `json:"preferredRoleId" validate:"omitempty,gte=1"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ValidateResponse struct {
	IsValid bool   `json:"isValid"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsGuest bool   `json:"isGuest"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:           req.Email,
		UserName:        req.UserName,
		Password:        req.Password,
		DisplayName:     req.DisplayName,
		PreferredRoleID: req.PreferredRoleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			writeError(w, http.StatusConflict, "Email is already registered")
		case errors.Is(err, service.ErrUserNameExists):
			writeError(w, http.StatusConflict, "User name is already taken")
		case errors.Is(err, domain.ErrRoleNotFound):
			writeError(w, http.StatusBadRequest, "Preferred role does not exist")
		default:
			log.WithError(err).Error("[auth.Register] failed to register user")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrGuestExpired):
			writeError(w, http.StatusUnauthorized, "Guest session has expired")
		default:
			log.WithError(err).Error("[auth.Login] failed to log in")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	result, err := h.authService.CreateGuest(r.Context())
	if err != nil {
		log.WithError(err).Error("[auth.Guest] failed to create guest")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Refresh(r.Context(), service.RefreshInput{
		Token:        req.Token,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		case errors.Is(err, service.ErrGuestExpired):
			writeError(w, http.StatusUnauthorized, "Guest session has expired")
		default:
			log.WithError(err).Error("[auth.Refresh] failed to refresh tokens")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).WithField("userID", userID).Error("[auth.Me] failed to load user")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		log.WithError(err).WithField("userID", userID).Error("[auth.Logout] failed to revoke session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		IsValid: true,
		UserID:  principal.UserID.String(),
		Email:   principal.Email,
		IsGuest: principal.IsGuest,
	})
}
