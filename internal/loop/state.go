package loop

// Phase says which actor currently owns the scroll offset. Only Idle lets
// the wrap correction run.
type Phase int

const (
	// Idle means nobody is moving the offset; wrap correction is allowed.
	Idle Phase = iota
	// Programmatic means a navigation or snap move is in flight.
	Programmatic
	// UserDragging covers the drag itself and any deceleration after it.
	UserDragging
)

func (p Phase) String() string {
	switch p {
	case Programmatic:
		return "programmatic"
	case UserDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// moveToken identifies one ownership of the offset. Completions carrying a
// stale token are ignored.
type moveToken uint64

// scrollState holds the offset bookkeeping shared by every actor
type scrollState struct {
	geometry Geometry
	valid    bool

	offset float64
	index  int

	phase     Phase
	owner     moveToken
	lastToken moveToken
}

func (s *scrollState) claim(p Phase) moveToken {
	s.lastToken++
	s.phase = p
	s.owner = s.lastToken
	return s.owner
}

// beginProgrammatic must run before the offset change it guards is issued.
func (s *scrollState) beginProgrammatic() moveToken {
	return s.claim(Programmatic)
}

// endProgrammatic releases the offset if t still owns it.
func (s *scrollState) endProgrammatic(t moveToken) bool {
	if s.phase != Programmatic || s.owner != t {
		return false
	}
	s.phase = Idle
	return true
}

// beginDrag hands the offset to the user, overriding any programmatic move.
func (s *scrollState) beginDrag() moveToken {
	return s.claim(UserDragging)
}

func (s *scrollState) endDrag() bool {
	if s.phase != UserDragging {
		return false
	}
	s.phase = Idle
	return true
}

func (s *scrollState) busy() bool {
	return s.phase != Idle
}

// reset drops any ownership; outstanding completions become stale.
func (s *scrollState) reset() {
	s.lastToken++
	s.owner = 0
	s.phase = Idle
}
