package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/assistant"
	"github.com/drstein77/storefront/internal/auth"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
)

type sessionResponse struct {
	Token   string       `json:"token,omitempty"`
	Session auth.Session `json:"session"`
}

// respondSession hands out a re-issued token for the same session id.
func respondSession(w http.ResponseWriter, token string, sess auth.Session) {
	middleware.SetSessionToken(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Session: sess})
}

func (h *BaseController) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{Session: session(r)})
}

func (h *BaseController) login(w http.ResponseWriter, r *http.Request) {
	var form auth.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	token, sess, err := h.auth.Login(session(r), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSession(w, token, sess)
}

func (h *BaseController) signup(w http.ResponseWriter, r *http.Request) {
	var form auth.SignupForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	token, sess, err := h.auth.Signup(session(r), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(sess.ID, "Account created successfully!", models.ToastSuccess)
	respondSession(w, token, sess)
}

func (h *BaseController) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": auth.ResetNotice(req.Email)})
}

func (h *BaseController) logout(w http.ResponseWriter, r *http.Request) {
	token, sess, err := h.auth.Logout(session(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSession(w, token, sess)
}

func (h *BaseController) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	token, sess, err := h.auth.LoginAdmin(session(r), req.Username, req.Password)
	if err != nil {
		h.log.Warn("admin login rejected", zap.String("username", req.Username))
		h.writeError(w, r, err)
		return
	}
	respondSession(w, token, sess)
}

func (h *BaseController) changePassword(w http.ResponseWriter, r *http.Request) {
	var form auth.PasswordForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	if err := h.auth.ChangeAdminPassword(form); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusForbidden, "Current password is incorrect.")
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, "Password updated successfully!", models.ToastSuccess)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) getChatMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.assistant.Messages(session(r).ID))
}

func (h *BaseController) postChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	reply, err := h.assistant.Send(r.Context(), session(r).ID, req.Text)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		writeMessage(w, http.StatusBadRequest, "Message is empty.")
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *BaseController) getChatKey(w http.ResponseWriter, r *http.Request) {
	_, ok := h.assistant.APIKey(session(r).ID)
	writeJSON(w, http.StatusOK, map[string]bool{"hasKey": ok})
}

func (h *BaseController) putChatKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	h.assistant.SetAPIKey(session(r).ID, req.APIKey)
	_, ok := h.assistant.APIKey(session(r).ID)
	writeJSON(w, http.StatusOK, map[string]bool{"hasKey": ok})
}

func (h *BaseController) deleteChatKey(w http.ResponseWriter, r *http.Request) {
	h.assistant.SetAPIKey(session(r).ID, "")
	w.WriteHeader(http.StatusNoContent)
}
