package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

func (s *ReplayService) Load(path string) (*ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.FrameCount < 0 {
		return nil, fmt.Errorf("negative frame count: %d", header.FrameCount)
	}

	session := &ReplaySession{
		Seed:       header.Seed,
		Timestamp:  header.Timestamp,
		StartLevel: int(header.StartLevel),
		Frames:     make([]FrameRecord, header.FrameCount),
	}

	// 2. Читаем кадры. Размер фиксированный, один вызов на весь слайс.
	if err := binary.Read(r, binary.LittleEndian, session.Frames); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("replay truncated: %w", err)
		}
		return nil, err
	}

	return session, nil
}
