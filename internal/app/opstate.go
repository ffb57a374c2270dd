package app

// OpState is a per-kind {Idle → Pending → Idle} machine. Begin is the only
// transition into Pending; a second Begin while pending is refused, which
// is what keeps same-kind responses in issue order without any explicit
// sequencing.
type OpState struct {
	pending bool
	lastErr string
}

// Begin reports whether the caller may start the operation. It returns
// false, leaving all state untouched, when one is already pending.
func (s *OpState) Begin() bool {
	if s.pending {
		return false
	}
	s.pending = true
	s.lastErr = ""
	return true
}

func (s *OpState) Succeed() {
	s.pending = false
	s.lastErr = ""
}

func (s *OpState) Fail(msg string) {
	s.pending = false
	s.lastErr = msg
}

func (s *OpState) Busy() bool { return s.pending }

// LastError returns the failure message from the most recent completed
// attempt, or "" after a success or before any attempt.
func (s *OpState) LastError() string { return s.lastErr }
