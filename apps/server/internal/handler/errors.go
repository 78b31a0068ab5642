package handler

import "fmt"

// Code classifies a request-handling failure into the taxonomy the client
// is expected to branch on, carried over the wire as Message.ErrStatusCode.
type Code int

const (
	CodeParseError Code = iota
	CodeInvalidMove
	CodeInvalidSpawn
	CodeCoveredPiece
	CodePinned
	CodeGameOver
	CodeInvalidGameControl
	CodeUnauthorized
	CodeTournamentFull
	CodeTournamentInviteOnly
	CodeNotEnoughPlayers
	CodeInvalidTournamentDetails
	CodeTimeNotFound
	CodeTimeout
	CodeDatabaseError
	CodeInternalError
)

func (c Code) String() string {
	switch c {
	case CodeParseError:
		return "ParseError"
	case CodeInvalidMove:
		return "InvalidMove"
	case CodeInvalidSpawn:
		return "InvalidSpawn"
	case CodeCoveredPiece:
		return "CoveredPiece"
	case CodePinned:
		return "Pinned"
	case CodeGameOver:
		return "GameOver"
	case CodeInvalidGameControl:
		return "InvalidGameControl"
	case CodeUnauthorized:
		return "Unauthorized"
	case CodeTournamentFull:
		return "TournamentFull"
	case CodeTournamentInviteOnly:
		return "TournamentInviteOnly"
	case CodeNotEnoughPlayers:
		return "NotEnoughPlayers"
	case CodeInvalidTournamentDetails:
		return "InvalidTournamentDetails"
	case CodeTimeNotFound:
		return "TimeNotFound"
	case CodeTimeout:
		return "Timeout"
	case CodeDatabaseError:
		return "DatabaseError"
	default:
		return "InternalError"
	}
}

// Fatal reports whether the error should end the session/connection rather
// than just being reported back to the caller (TimeNotFound/Timeout per the
// error-handling design: a clock desync or expired wait is not recoverable
// by retrying the same request).
func (c Code) Fatal() bool {
	return c == CodeTimeNotFound || c == CodeTimeout
}

// Error is a handler-level failure tagged with the taxonomy code the
// session layer needs to decide whether to fan out (validation errors never
// fan out; see spec's error-handling design) and what to tell the client.
type Error struct {
	Code   Code
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func newError(code Code, field string, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Reason: fmt.Sprintf(format, args...)}
}
