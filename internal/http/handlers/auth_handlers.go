package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/shop-inventory/internal/auth"
)

// LoginInfoHandler godoc
// @Summary Describe how to log in
// @Description Target of the redirect sent to unauthenticated browsers.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /login [get]
func (s *Server) LoginInfoHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, MessageResponse{Message: "POST username and password as JSON to /login"})
}

// LoginHandler godoc
// @Summary Authenticate user and return a session token
// @Description The token is also set as an HttpOnly cookie for browser clients.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 429 {string} string "Too many requests"
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials UserLogin
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	token, session, err := s.auth.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		s.internalError(w, "could not log in", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	s.respond(w, http.StatusOK, LoginResult{Token: token, ExpiresAt: session.ExpiresAt})
}

// LogoutHandler godoc
// @Summary End the current session
// @Tags auth
// @Success 204 "Logged out"
// @Failure 401 {string} string "Unauthorized"
// @Router /logout [post]
// @Security BearerAuth
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.auth.Logout(r.Context(), session); err != nil {
		s.internalError(w, "could not log out", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// ChangePasswordHandler godoc
// @Summary Change the password of the logged-in user
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body ChangePasswordRequest true "current, new and confirmed password"
// @Success 200 {object} MessageResponse
// @Failure 400 {string} string "Rejected"
// @Failure 401 {string} string "Unauthorized"
// @Router /password [post]
// @Security BearerAuth
func (s *Server) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	err := s.auth.ChangePassword(r.Context(), session, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	switch {
	case err == nil:
		s.respond(w, http.StatusOK, MessageResponse{Message: "password changed"})
	case errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrWrongPassword),
		errors.Is(err, auth.ErrEmptyPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.internalError(w, "could not change password", err)
	}
}
