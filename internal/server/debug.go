package server

import (
	"encoding/json"
	"net/http"

	"depths-server/internal/network"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сессий
type DebugHandler struct {
	Registry *network.Registry
}

func NewDebugHandler(r *network.Registry) *DebugHandler {
	return &DebugHandler{Registry: r}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
}

// /debug/sessions - список активных сессий и их состояние
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Registry.Infos())
}

// /debug/entities?session=<id> - дамп всех сущностей сессии.
// Чтение без синхронизации с циклом тиков: возможен снимок середины
// кадра, для отладки это приемлемо.
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	s, ok := h.Registry.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	session, ok := s.(*Session)
	if !ok {
		http.Error(w, "Session has no entity dump", http.StatusNotFound)
		return
	}
	writeJSON(w, session.Game.World.Entities)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Пустой результат отдаем как [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
