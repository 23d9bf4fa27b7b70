package network

import "sync"

// SessionInfo - сводка по сессии для отладочных эндпоинтов.
type SessionInfo struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Level    int    `json:"level"`
	Tick     int64  `json:"tick"`
	Entities int    `json:"entities"`
}

// Session - минимальный контракт живой игровой сессии для реестра.
type Session interface {
	ID() string
	Info() SessionInfo
	Shutdown()
}

// Registry занимается только учетом активных сессий.
// Каждое websocket-подключение владеет собственным миром, поэтому
// вместо рассылки здесь учет: отладка, метрики и graceful shutdown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
	}
}

// Register добавляет сессию. Повторная регистрация того же ID
// вытесняет старую сессию.
func (r *Registry) Register(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[s.ID()]; ok {
		old.Shutdown()
	}
	r.sessions[s.ID()] = s
}

// Unregister удаляет сессию.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get возвращает сессию по ID.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Infos возвращает сводки по всем активным сессиям.
func (r *Registry) Infos() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Info())
	}
	return out
}

// Count возвращает количество активных сессий.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ShutdownAll останавливает все сессии. Вызывается при завершении процесса.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.Shutdown()
		delete(r.sessions, id)
	}
}
