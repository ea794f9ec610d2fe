package server

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/interaction"
)

// ErrUnknownSession is returned for a session id that was never opened or is closed.
var ErrUnknownSession = errors.New("unknown session")

// session is one photograph/result pair with its own surface and hover state.
type session struct {
	id        string
	imagePath string
	ctrl      *interaction.Controller
}

func (s *Server) openSession(imagePath string, ctrl *interaction.Controller) *session {
	sess := &session{
		id:        uuid.NewString(),
		imagePath: imagePath,
		ctrl:      ctrl,
	}
	s.sessions[sess.id] = sess
	return sess
}

func (s *Server) session(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return sess, nil
}

func (s *Server) closeSession(id string) error {
	if _, err := s.session(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

// board resolves a board index in the session's result.
func (sess *session) board(index int) (*detection.Board, error) {
	result := sess.ctrl.Result()
	b := result.Board(index)
	if b == nil {
		return nil, fmt.Errorf("board index %d out of range (%d boards)", index, len(result.Boards))
	}
	return b, nil
}
