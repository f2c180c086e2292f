package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/chatty-orange/server/internal/assistant/model"
	errx "github.com/chatty-orange/server/internal/core/error"
	logx "github.com/chatty-orange/server/pkg/logger"
)

const (
	maxRequestBodySize = 1 << 20

	HeaderUserID   = "X-Authenticated-User-ID"
	HeaderUsername = "X-Authenticated-Username"

	badRequestMessage = "Неверный формат данных"
	apiVersion        = "2.2"
)

// Assistant answers one chat request.
type Assistant interface {
	Handle(ctx context.Context, req model.AssistantRequest) (model.AssistantResponse, error)
}

type ChatHandler struct {
	assistant Assistant
}

func NewChatHandler(a Assistant) *ChatHandler {
	return &ChatHandler{assistant: a}
}

// chatRequest is the wire body. user_info is accepted for compatibility but
// identity always comes from the authentication headers.
type chatRequest struct {
	ActionType   *string         `json:"action_type"`
	UserInput    string          `json:"user_input"`
	UserInfo     json.RawMessage `json:"user_info,omitempty"`
	StepNumber   *int            `json:"step_number"`
	CurrentText  string          `json:"current_text"`
	Tags         []string        `json:"tags"`
	PostID       *int64          `json:"post_id"`
	UserIDTarget *int64          `json:"user_id_target"`
}

func (c chatRequest) toModel(caller model.CallerInfo) model.AssistantRequest {
	req := model.AssistantRequest{
		RawText:      c.UserInput,
		StepNumber:   c.StepNumber,
		CurrentText:  c.CurrentText,
		Tags:         c.Tags,
		PostID:       c.PostID,
		UserIDTarget: c.UserIDTarget,
		Caller:       caller,
	}
	if c.ActionType != nil {
		req.ExplicitIntent = *c.ActionType
	}
	return req
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(&body); err != nil {
		logx.Debug().Err(err).Msg("invalid chat body")
		writeError(w, http.StatusBadRequest, badRequestMessage)
		return
	}

	resp, err := h.assistant.Handle(r.Context(), body.toModel(callerFromRequest(r)))
	if err != nil {
		var appErr *errx.AppError
		if errors.As(err, &appErr) && appErr.RetryAfter > 0 {
			secs := int(math.Ceil(appErr.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		writeError(w, errx.StatusOf(err), errx.MessageOf(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type apiInfo struct {
	Message                 string            `json:"message"`
	Version                 string            `json:"version"`
	Endpoints               map[string]string `json:"endpoints"`
	NaturalLanguageExamples []string          `json:"natural_language_examples"`
}

func (h *ChatHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiInfo{
		Message: "Chatty Orange AI Assistant API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"POST /api/chat/": "Отправить запрос ассистенту",
			"GET /api/chat/":  "Информация об API",
		},
		NaturalLanguageExamples: []string{
			"Найди пользователя Orange",
			"Какие статьи у Orange?",
			"Найди пост про Django",
			"Расскажи о посте 1",
			"Что нового у python_dev?",
			"Кого почитать?",
		},
	})
}

// callerFromRequest trusts the headers set by the authenticating proxy.
func callerFromRequest(r *http.Request) model.CallerInfo {
	caller := model.CallerInfo{IP: clientIP(r)}
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return caller
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return caller
	}
	caller.UserID = &id
	caller.IsAuthenticated = true
	caller.Username = strings.TrimSpace(r.Header.Get(HeaderUsername))
	return caller
}

// clientIP prefers the first X-Forwarded-For entry.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
