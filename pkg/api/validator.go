package api

import (
	"errors"
	"math"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (f InputFrame) Validate() error {
	if math.IsNaN(f.MoveX) || math.IsNaN(f.MoveY) || math.IsNaN(f.AimX) || math.IsNaN(f.AimY) {
		return errors.New("input contains NaN")
	}
	if math.Abs(f.MoveX) > 1 || math.Abs(f.MoveY) > 1 {
		return errors.New("movement axis out of range")
	}
	return nil
}

func (m ClientMessage) Validate() error {
	switch m.Type {
	case "INPUT":
		if m.Input == nil {
			return errors.New("input frame is required")
		}
		return m.Input.Validate()
	case "RESTART", "PING":
		return nil
	}
	return errors.New("unknown message type: " + m.Type)
}
