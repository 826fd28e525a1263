package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"slackbridge/core/log"
)

type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

type rootResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Status  string `json:"status"`
}

type upResponse struct {
	OK bool `json:"ok"`
}

func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{OK: true, Service: h.serviceName, Status: "up"})
}

func (h *HealthHandler) HandleUp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, upResponse{OK: true})
}

func (h *HealthHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/", h.HandleRoot).Methods(http.MethodGet)
	router.HandleFunc("/up", h.HandleUp).Methods(http.MethodGet)
	log.Info("✅ GET / and GET /up endpoints registered")
}
