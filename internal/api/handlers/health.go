package handlers

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// Health GET /health - проверка живости сервиса
func Health(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
