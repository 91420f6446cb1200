package contato

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"vivair-contato/contato/application"
	"vivair-contato/contato/domain"
	"vivair-contato/middleware/ratelimit"
)

// MaxBodyBytes limita o corpo de POST /api/contato.
const MaxBodyBytes = 16 << 10

const (
	MsgRateLimited    = "Muitas tentativas. Tente novamente em alguns minutos."
	MsgInvalidRequest = "Requisição inválida."
	MsgInvalidForm    = "Verifique os campos destacados."
)

// request é o corpo JSON enviado pelo formulário.
// _hp é o honeypot e _t o instante (epoch ms) em que o formulário montou.
type request struct {
	Nome     string   `json:"nome"`
	Email    string   `json:"email"`
	Telefone string   `json:"telefone"`
	Porcque  string   `json:"porcque"`
	Honeypot string   `json:"_hp"`
	T        *float64 `json:"_t"`
}

func (r request) draft() domain.Draft {
	d := domain.Draft{
		Nome:     r.Nome,
		Email:    r.Email,
		Telefone: r.Telefone,
		Porcque:  r.Porcque,
		Honeypot: r.Honeypot,
	}
	if r.T != nil && *r.T > 0 {
		d.MountedAt = time.UnixMilli(int64(*r.T))
	}
	return d
}

type successResponse struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings,omitempty"`
}

type invalidResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type Handler struct {
	svc    application.Service
	keyFn  ratelimit.KeyFunc
	logger *slog.Logger
}

// NewHandler cria o handler de POST /api/contato. keyFn nil usa
// ratelimit.DefaultKeyFunc confiando nos headers de proxy.
func NewHandler(svc application.Service, keyFn ratelimit.KeyFunc, logger *slog.Logger) *Handler {
	if keyFn == nil {
		keyFn = ratelimit.DefaultKeyFunc("", true)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, keyFn: keyFn, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		ratelimit.WriteError(w, http.StatusMethodNotAllowed, MsgInvalidRequest)
		return
	}

	sub := application.Submission{
		ClientKey: h.keyFn(r),
		Method:    r.Method,
		Path:      r.URL.Path,
	}
	var req request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.logger.Info("contato: corpo inválido", "error", err)
		sub.Malformed = true
	} else {
		sub.Draft = req.draft()
	}

	// o rate limit vale também para corpo ilegível
	res := h.svc.Submit(r.Context(), sub)

	switch res.Verdict {
	case application.RateLimited:
		w.Header().Set("Retry-After", ratelimit.RetryAfterSeconds(res.RetryAfter))
		ratelimit.WriteError(w, http.StatusTooManyRequests, MsgRateLimited)

	case application.Malformed:
		ratelimit.WriteError(w, http.StatusBadRequest, MsgInvalidRequest)

	case application.Invalid:
		fields := make(map[string]string, len(res.Errors))
		for f, msg := range res.Errors {
			fields[string(f)] = msg
		}
		msg := MsgInvalidForm
		if _, first := res.Errors.First(); first != "" {
			msg = first
		}
		writeJSON(w, http.StatusBadRequest, invalidResponse{Error: msg, Fields: fields})

	case application.SilentDrop:
		// indistinguível de um envio aceito
		writeJSON(w, http.StatusOK, successResponse{Success: true})

	default:
		writeJSON(w, http.StatusOK, successResponse{Success: true, Warnings: res.Warnings})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
