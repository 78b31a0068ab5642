package state

import "errors"

var (
	ErrGameOver              = errors.New("state: game already finished")
	ErrNotOnBoard            = errors.New("state: piece is not on the board")
	ErrInvalidMove           = errors.New("state: destination is not a legal move")
	ErrInvalidSpawn          = errors.New("state: destination is not a legal spawn")
	ErrQueenRequired         = errors.New("state: the queen must be played this turn")
	ErrQueenOpeningForbidden = errors.New("state: tournament rules forbid opening with the queen")
	ErrInvalidPass           = errors.New("state: pass is only legal when the side to move is shut out")
	ErrNoHistory             = errors.New("state: no moves to take back")
	ErrNotInReserve          = errors.New("state: piece identity is not part of this game type's reserve")
	ErrOutOfTurn             = errors.New("state: it is not this color's turn")
)
