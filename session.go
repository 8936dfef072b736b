package pixelveil

import (
	"sync"
)

// Session ties the pipeline together for one editing context: a
// current buffer, its analysis, and an operation history. Sessions are
// independent — concurrent sessions never share state — and each
// session serializes its own operations.
type Session struct {
	mu      sync.Mutex
	buf     *Buffer
	history *History
}

// NewSession starts a session on the given buffer.
func NewSession(buf *Buffer) (*Session, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	return &Session{buf: buf, history: NewHistory(buf)}, nil
}

// Buffer returns the session's current buffer.
func (s *Session) Buffer() *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Analyze scores the current buffer.
func (s *Session) Analyze() Analysis {
	return Analyze(s.Buffer())
}

// Apply transforms the current buffer, records the operation, and
// makes the output current.
func (s *Session) Apply(kind Kind, key Key, params Params) (*OperationRecord, error) {
	return s.apply(kind, key, params, false)
}

// ApplyInverse is Apply for the inverse direction. Inverse operations
// are recorded in history like forward ones.
func (s *Session) ApplyInverse(kind Kind, key Key, params Params) (*OperationRecord, error) {
	return s.apply(kind, key, params, true)
}

func (s *Session) apply(kind Kind, key Key, params Params, inverse bool) (*OperationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := process(s.buf, kind, key, params, inverse)
	if err != nil {
		return nil, err
	}
	s.history.Push(rec)
	s.buf = rec.Buffer
	return rec, nil
}

// Undo restores the previous buffer state.
func (s *Session) Undo() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := s.history.Undo()
	if err != nil {
		return nil, err
	}
	s.buf = buf
	return buf, nil
}

// Redo restores the next buffer state if one exists.
func (s *Session) Redo() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := s.history.Redo()
	if err != nil {
		return nil, err
	}
	s.buf = buf
	return buf, nil
}

// JumpTo restores the buffer produced by the operation at index.
func (s *Session) JumpTo(index int) (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, err := s.history.JumpTo(index)
	if err != nil {
		return nil, err
	}
	s.buf = buf
	return buf, nil
}

// History exposes the session's operation log.
func (s *Session) History() *History {
	return s.history
}

// Reset clears the history and returns the session to its base buffer.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
	s.buf = s.history.Current()
}
