package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	id       string
	shutdown int
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Info() SessionInfo {
	return SessionInfo{ID: f.id, State: "PLAYING", Level: 1}
}

func (f *fakeSession) Shutdown() { f.shutdown++ }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{id: "s1"}

	r.Register(s)

	assert.Equal(t, 1, r.Count())
	got, ok := r.Get("s1")
	assert.True(t, ok)
	assert.Same(t, s, got)
}

func TestRegistryDisplacesDuplicateID(t *testing.T) {
	r := NewRegistry()
	old := &fakeSession{id: "s1"}
	fresh := &fakeSession{id: "s1"}

	r.Register(old)
	r.Register(fresh)

	assert.Equal(t, 1, old.shutdown, "displaced session must be shut down")
	assert.Equal(t, 0, fresh.shutdown)
	got, _ := r.Get("s1")
	assert.Same(t, fresh, got)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSession{id: "s1"})

	r.Unregister("s1")

	assert.Equal(t, 0, r.Count())
	_, ok := r.Get("s1")
	assert.False(t, ok)
}

func TestRegistryInfos(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSession{id: "a"})
	r.Register(&fakeSession{id: "b"})

	infos := r.Infos()
	assert.Len(t, infos, 2)

	ids := map[string]bool{}
	for _, info := range infos {
		ids[info.ID] = true
	}
	assert.True(t, ids["a"] && ids["b"])
}

func TestRegistryShutdownAll(t *testing.T) {
	r := NewRegistry()
	a := &fakeSession{id: "a"}
	b := &fakeSession{id: "b"}
	r.Register(a)
	r.Register(b)

	r.ShutdownAll()

	assert.Equal(t, 0, r.Count())
	assert.Equal(t, 1, a.shutdown)
	assert.Equal(t, 1, b.shutdown)
}
