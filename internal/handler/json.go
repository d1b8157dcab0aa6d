package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response 是所有接口统一的响应信封
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	// 拼错的字段名直接报错，不要静默忽略
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("写入响应失败", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.respond(w, r, http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

// errorResponse 返回业务上的失败，HTTP 状态码仍然是 200
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.respond(w, r, http.StatusOK, Response{Success: false, Message: msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
		return
	}
	h.errorResponse(w, r, err.Error())
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
	h.respond(w, r, http.StatusInternalServerError, Response{Success: false, Message: "服务器内部错误"})
}
