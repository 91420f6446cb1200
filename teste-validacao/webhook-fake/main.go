package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
)

// Webhook de WhatsApp falso para testar o formulário localmente:
//
//	go run ./teste-validacao/webhook-fake
//	WA_WEBHOOK_URL=http://localhost:8081/webhook go run ./cmd/site
//
// FAIL_STATUS=500 faz o webhook falhar e o site devolver o aviso.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	failStatus, _ := strconv.Atoi(os.Getenv("FAIL_STATUS"))
	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	http.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Phone   string `json:"phone"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.Warn("payload inválido", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		logger.Info("notificação recebida", "phone", payload.Phone)
		fmt.Println(payload.Message)

		if failStatus >= 400 {
			w.WriteHeader(failStatus)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	logger.Info("webhook fake rodando", "addr", addr, "fail_status", failStatus)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Error("erro ao subir o servidor", "error", err)
		os.Exit(1)
	}
}
