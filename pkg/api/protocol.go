package api

import "encoding/json"

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientMessage - корневой объект любого сообщения от клиента.
type ClientMessage struct {
	// Type тип сообщения: "INPUT", "RESTART", "PING".
	Type string `json:"type"`

	// Input присутствует только при Type == "INPUT".
	Input *InputFrame `json:"input,omitempty"`
}

// InputFrame - намерение игрока на один тик симуляции.
// Клиент шлет кадры с собственной частотой; сервер применяет последний
// полученный кадр на каждом тике, пропущенные кадры не накапливаются.
type InputFrame struct {
	// MoveX, MoveY - желаемое направление движения, каждая ось в [-1, 1].
	// Сервер нормализует вектор сам, клиенту это делать не обязательно.
	MoveX float64 `json:"moveX"`
	MoveY float64 `json:"moveY"`

	// AimX, AimY - точка прицеливания в мировых координатах.
	AimX float64 `json:"aimX"`
	AimY float64 `json:"aimY"`

	Fire     bool `json:"fire"`
	Dash     bool `json:"dash"`
	Interact bool `json:"interact"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerMessage - корневой объект сообщения сервера.
type ServerMessage struct {
	// Type тип сообщения: "STATE", "LEVEL", "ERROR".
	Type string `json:"type"`

	// Payload зависит от типа: снапшот мира, данные уровня или текст ошибки.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LevelFrame отправляется один раз при загрузке уровня: статическая
// геометрия, которую нет смысла гнать в каждом кадре состояния.
type LevelFrame struct {
	Number   int      `json:"number"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	TileSize int      `json:"tileSize"`
	Walls    [][]bool `json:"walls"`

	Rooms []RoomView `json:"rooms"`
}

// RoomView - DTO комнаты для клиентского рендера (миникарта, отладка).
type RoomView struct {
	Index  int    `json:"index"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	Type   string `json:"type"`
	IsExit bool   `json:"isExit"`

	Triggered bool `json:"triggered"`
	Cleared   bool `json:"cleared"`
}

// ErrorPayload - текст ошибки для клиента.
type ErrorPayload struct {
	Message string `json:"message"`
}
