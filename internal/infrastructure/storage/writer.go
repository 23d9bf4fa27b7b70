package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"depths-server/pkg/api"
)

const (
	MagicHeader string = `DSRP` // 4 байта
	Version1    uint32 = 1
)

// Симуляция детерминирована относительно сида, поэтому реплей - это
// только сид плюс последовательность кадров ввода. Состояние мира
// не сохраняется вообще: воспроизведение прогоняет симуляцию заново.

// ReplayFileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк,
// только массивы и числа.
type ReplayFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Seed       int64   // 8 байт
	Timestamp  int64   // 8 байт
	StartLevel int32   // 4 байта
	FrameCount int32   // 4 байта
}

// FrameRecord - один кадр ввода фиксированного размера.
// Флаги: бит 0 - огонь, бит 1 - рывок, бит 2 - взаимодействие.
type FrameRecord struct {
	Tick  int64   // 8
	MoveX float32 // 4
	MoveY float32 // 4
	AimX  float32 // 4
	AimY  float32 // 4
	Flags uint8   // 1
	_     [3]byte // выравнивание до 28 байт
}

const (
	flagFire     = 1 << 0
	flagDash     = 1 << 1
	flagInteract = 1 << 2
)

// ReplaySession - записанный забег.
type ReplaySession struct {
	Seed       int64
	Timestamp  int64
	StartLevel int
	Frames     []FrameRecord
}

// Record добавляет кадр ввода за тик.
func (s *ReplaySession) Record(tick int64, in api.InputFrame) {
	rec := FrameRecord{
		Tick:  tick,
		MoveX: float32(in.MoveX),
		MoveY: float32(in.MoveY),
		AimX:  float32(in.AimX),
		AimY:  float32(in.AimY),
	}
	if in.Fire {
		rec.Flags |= flagFire
	}
	if in.Dash {
		rec.Flags |= flagDash
	}
	if in.Interact {
		rec.Flags |= flagInteract
	}
	s.Frames = append(s.Frames, rec)
}

// Input восстанавливает кадр ввода из записи.
func (r FrameRecord) Input() api.InputFrame {
	return api.InputFrame{
		MoveX:    float64(r.MoveX),
		MoveY:    float64(r.MoveY),
		AimX:     float64(r.AimX),
		AimY:     float64(r.AimY),
		Fire:     r.Flags&flagFire != 0,
		Dash:     r.Flags&flagDash != 0,
		Interact: r.Flags&flagInteract != 0,
	}
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) *ReplayService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.Mkdir(dir, 0755)
	}
	return &ReplayService{SaveDir: dir}
}

func (s *ReplayService) Save(session *ReplaySession) (string, error) {
	filename := fmt.Sprintf("run_%d_lvl%d_%d.dsrp", session.Seed, session.StartLevel, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, session); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *ReplaySession) error {
	header := ReplayFileHeader{
		Version:    Version1,
		Seed:       s.Seed,
		Timestamp:  s.Timestamp,
		StartLevel: int32(s.StartLevel),
		FrameCount: int32(len(s.Frames)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Кадры фиксированного размера, пишем слайс одной командой.
	if err := binary.Write(w, binary.LittleEndian, s.Frames); err != nil {
		return fmt.Errorf("failed to write frames: %w", err)
	}
	return nil
}
