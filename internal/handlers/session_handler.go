package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"auctionmap/internal/api"
	"auctionmap/internal/models"
	"auctionmap/internal/session"
)

type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error)
}

type SessionHandler struct {
	API     AuthAPI
	Session *session.Store
}

type sessionResponse struct {
	LoggedIn  bool       `json:"loggedIn"`
	IsAdmin   bool       `json:"isAdmin"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Message   string     `json:"message,omitempty"`
}

func describeSession(store *session.Store, message string) sessionResponse {
	resp := sessionResponse{
		LoggedIn: store.LoggedIn(),
		IsAdmin:  store.IsAdmin(),
		Message:  message,
	}
	if claims, err := store.Claims(); err == nil {
		if exp := claims.Expiry(); !exp.IsZero() {
			resp.ExpiresAt = &exp
		}
	}
	return resp
}

func (h *SessionHandler) current(message string) sessionResponse {
	return describeSession(h.Session, message)
}

// Register signs up and, when the backend already issued a token, logs in.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	resp, err := h.API.Register(r.Context(), req)
	if err != nil {
		writeFailure(w, err, api.MsgRegister)
		return
	}
	if resp.AccessToken != "" {
		if err := h.Session.SetToken(r.Context(), resp.AccessToken); err != nil {
			writeError(w, http.StatusInternalServerError, "세션 저장에 실패했습니다.")
			return
		}
	}
	writeJSON(w, http.StatusCreated, struct {
		User    models.RegisterResponse `json:"user"`
		Session sessionResponse         `json:"session"`
	}{User: sanitizeRegister(resp), Session: h.current("회원가입이 완료되었습니다.")})
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	resp, err := h.API.Login(r.Context(), req)
	if err != nil {
		writeFailure(w, err, api.MsgLogin)
		return
	}
	if err := h.Session.SetToken(r.Context(), resp.AccessToken); err != nil {
		if errors.Is(err, session.ErrEmptyToken) {
			writeError(w, http.StatusBadGateway, api.MsgLogin)
			return
		}
		writeError(w, http.StatusInternalServerError, "세션 저장에 실패했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, h.current(""))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.ClearToken(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "세션 삭제에 실패했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, h.current(""))
}

// sanitizeRegister keeps the token out of the view; it lives in the session.
func sanitizeRegister(resp models.RegisterResponse) models.RegisterResponse {
	resp.AccessToken = ""
	return resp
}
