package storage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depths-server/pkg/api"
)

func sampleSession() *ReplaySession {
	s := &ReplaySession{Seed: 42, Timestamp: 1700000000, StartLevel: 3}
	s.Record(0, api.InputFrame{MoveX: 1, MoveY: -0.5, AimX: 320, AimY: 240, Fire: true})
	s.Record(1, api.InputFrame{Dash: true})
	s.Record(2, api.InputFrame{Interact: true})
	s.Record(3, api.InputFrame{})
	return s
}

func TestReplayRoundtrip(t *testing.T) {
	svc := NewReplayService(t.TempDir())
	original := sampleSession()

	path, err := svc.Save(original)
	require.NoError(t, err)

	loaded, err := svc.Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Seed, loaded.Seed)
	assert.Equal(t, original.Timestamp, loaded.Timestamp)
	assert.Equal(t, original.StartLevel, loaded.StartLevel)
	require.Len(t, loaded.Frames, len(original.Frames))
	assert.Equal(t, original.Frames, loaded.Frames)
}

func TestFrameRecordPreservesInputFlags(t *testing.T) {
	s := &ReplaySession{}
	in := api.InputFrame{MoveX: 0.25, MoveY: -1, AimX: 100, AimY: 50, Fire: true, Interact: true}
	s.Record(7, in)

	require.Len(t, s.Frames, 1)
	rec := s.Frames[0]
	assert.Equal(t, int64(7), rec.Tick)

	got := rec.Input()
	assert.Equal(t, in.MoveX, got.MoveX)
	assert.Equal(t, in.MoveY, got.MoveY)
	assert.True(t, got.Fire)
	assert.False(t, got.Dash)
	assert.True(t, got.Interact)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dsrp")
	require.NoError(t, os.WriteFile(path, append([]byte("NOPE"), bytes.Repeat([]byte{0}, 28)...), 0o644))

	svc := NewReplayService(dir)
	_, err := svc.Load(path)
	assert.ErrorContains(t, err, "invalid magic")
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	header := ReplayFileHeader{Version: 99, Seed: 1}
	copy(header.Magic[:], MagicHeader)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &header))

	_, err := readBinary(&buf)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestLoadRejectsTruncatedFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleSession()))

	// Chop the last frame in half.
	data := buf.Bytes()[:buf.Len()-14]

	_, err := readBinary(bytes.NewReader(data))
	assert.ErrorContains(t, err, "truncated")
}

func TestSaveFilenameEncodesRun(t *testing.T) {
	svc := NewReplayService(t.TempDir())

	path, err := svc.Save(sampleSession())
	require.NoError(t, err)
	assert.Equal(t, "run_42_lvl3_1700000000.dsrp", filepath.Base(path))
}
