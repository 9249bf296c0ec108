package api

import (
	"net/http"
	"time"

	"github.com/example/nova-commerce/internal/api/middleware"
	"github.com/example/nova-commerce/internal/auth"
	"github.com/example/nova-commerce/internal/command"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/query"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	jwtService   *auth.JWTService
}

func NewAuthHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		jwtService:   jwtService,
	}
}

// AuthResponse is returned by login and registration. The token is also
// set as the access_token cookie for browser clients.
type AuthResponse struct {
	User        user.Account `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Message     string       `json:"message,omitempty"`
}

// Register creates a customer account and signs it in.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.Register
	if !decodeJSON(w, r, &cmd) {
		return
	}

	acc, err := h.cmdHandler.Register(r.Context(), cmd)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	h.signIn(w, r, acc, http.StatusCreated, "Registration successful")
}

// Login checks credentials and issues an access token.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.Login
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.IPAddress = r.RemoteAddr
	cmd.UserAgent = r.UserAgent()

	acc, err := h.cmdHandler.Login(r.Context(), cmd)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	h.signIn(w, r, acc, http.StatusOK, "Login successful")
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the current authenticated user's account
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.queryHandler.GetAccount(middleware.GetUserID(r.Context()))
	if !ok {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, acc)
}

func (h *AuthHandlers) signIn(w http.ResponseWriter, r *http.Request, acc user.Account, status int, message string) {
	token, expiresAt, err := h.jwtService.GenerateAccessToken(acc.Identity())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, status, AuthResponse{
		User:        acc,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Message:     message,
	})
}
