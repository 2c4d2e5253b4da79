package app

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/ports"
)

// recordingSink stores appended lines.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// fakeHandle records sends. failAt makes the n-th send (1-based) fail;
// block makes every send wait until release is closed.
type fakeHandle struct {
	mu      sync.Mutex
	sends   []time.Time
	frames  [][]byte
	closed  bool
	failAt  int
	failErr error
	block   chan struct{}
}

func (h *fakeHandle) Send(frame []byte) error {
	if h.block != nil {
		<-h.block
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return domain.ErrHandleClosed
	}
	if h.failAt > 0 && len(h.sends)+1 == h.failAt {
		h.sends = append(h.sends, time.Now())
		return h.failErr
	}
	h.sends = append(h.sends, time.Now())
	h.frames = append(h.frames, append([]byte(nil), frame...))
	return nil
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *fakeHandle) Sends() []time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]time.Time(nil), h.sends...)
}

func (h *fakeHandle) Frames() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]byte(nil), h.frames...)
}

func (h *fakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// fakeLinkLayer hands out fakeHandles built by newHandle.
type fakeLinkLayer struct {
	mu        sync.Mutex
	opened    []*fakeHandle
	idents    []domain.NetworkIdentity
	openErr   error
	newHandle func() *fakeHandle
}

func (l *fakeLinkLayer) Name() string { return "fake" }

func (l *fakeLinkLayer) Open(ident domain.NetworkIdentity) (ports.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.openErr != nil {
		return nil, l.openErr
	}
	h := &fakeHandle{}
	if l.newHandle != nil {
		h = l.newHandle()
	}
	l.opened = append(l.opened, h)
	l.idents = append(l.idents, ident)
	return h, nil
}

func (l *fakeLinkLayer) Handles() []*fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*fakeHandle(nil), l.opened...)
}

// fakeResolver returns a fixed identity and counts calls.
type fakeResolver struct {
	mu    sync.Mutex
	calls int
	err   error
}

var testIdentity = domain.NetworkIdentity{
	Interface: "eth0",
	Index:     2,
	MAC:       net.HardwareAddr{0x02, 0x42, 0xac, 0x11, 0x00, 0x02},
	IP:        net.IPv4(192, 168, 1, 20).To4(),
}

func (r *fakeResolver) Resolve() (domain.NetworkIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return domain.NetworkIdentity{}, r.err
	}
	return testIdentity, nil
}

func (r *fakeResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// mutableInput is an InputSource whose values can change between starts.
type mutableInput struct {
	mu sync.Mutex
	in domain.RawInput
}

func (m *mutableInput) Inputs() domain.RawInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.in
}

func (m *mutableInput) Set(in domain.RawInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.in = in
}

var errLinkDown = errors.New("link down")

// waitFor polls cond until it holds or the timeout expires.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
