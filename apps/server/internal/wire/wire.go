// Package wire implements the binary WebSocket protocol: a MessagePack-
// encoded tagged union carrying either a client Request or a server Result.
//
// Grounded on the teacher's apps/server/internal/codec/codec.go idiom
// (encode a tagged Go struct, ship the bytes over the socket) but built on
// github.com/vmihailenco/msgpack/v5 in place of protobuf, per spec §6's
// explicit MessagePack mandate — no pack repo carries a msgpack dependency,
// so this one library is adopted fresh rather than grounded on prior code.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind discriminates a CommonMessage's payload.
type Kind string

const (
	KindClient Kind = "client"
	KindServer Kind = "server"
)

// RequestType discriminates a client Request, mirroring spec §4.J's demux.
type RequestType string

const (
	ReqMove             RequestType = "Move"
	ReqGameControl      RequestType = "GameControl"
	ReqJoin             RequestType = "Join"
	ReqChat             RequestType = "Chat"
	ReqChallengeCreate  RequestType = "ChallengeCreate"
	ReqChallengeAccept  RequestType = "ChallengeAccept"
	ReqChallengeCancel  RequestType = "ChallengeCancel"
	ReqTournamentCreate RequestType = "TournamentCreate"
	ReqTournamentJoin   RequestType = "TournamentJoin"
	ReqTournamentLeave  RequestType = "TournamentLeave"
	ReqTournamentInvite RequestType = "TournamentInvite"
	ReqTournamentStart  RequestType = "TournamentStart"
	ReqTournamentFinish RequestType = "TournamentFinish"
	ReqTournamentAdjudicate RequestType = "TournamentAdjudicateResult"
	ReqTournamentReady  RequestType = "TournamentReady"
	ReqUserProfile      RequestType = "UserProfile"
	ReqGamesSearch      RequestType = "GamesSearch"
	ReqPong             RequestType = "Pong"
	ReqSchedulesUpdate  RequestType = "SchedulesUpdate"
)

// MessageType discriminates an outbound server Message, mirroring spec §6's
// Message variants.
type MessageType string

const (
	MsgGameUpdate        MessageType = "GameUpdate"
	MsgChallengeUpdate   MessageType = "ChallengeUpdate"
	MsgTournamentUpdate  MessageType = "TournamentUpdate"
	MsgUserStatus        MessageType = "UserStatus"
	MsgPing              MessageType = "Ping"
	MsgError             MessageType = "Error"
)

// GameUpdateKind discriminates the payload of a GameUpdate message.
type GameUpdateKind string

const (
	GameUpdateMove      GameUpdateKind = "Move"
	GameUpdateControl   GameUpdateKind = "Control"
	GameUpdateHeartbeat GameUpdateKind = "Heartbeat"
	GameUpdateUrgent    GameUpdateKind = "Urgent"
	GameUpdateStart     GameUpdateKind = "Start"
	GameUpdateEnd       GameUpdateKind = "End"
)

// Request is one client-to-server frame's payload, after the envelope's
// Type discriminant has selected which fields are meaningful. Unused
// fields are simply left at their zero value — matching the flat-struct
// "one big envelope" idiom the teacher's own generated protobuf envelope
// used (oneof collapsed to optional fields at the msgpack boundary).
type Request struct {
	Type RequestType `msgpack:"type"`

	GameID       string `msgpack:"game_id,omitempty"`
	Piece        string `msgpack:"piece,omitempty"`
	Destination  string `msgpack:"destination,omitempty"`
	Control      string `msgpack:"control,omitempty"`
	Text         string `msgpack:"text,omitempty"`

	ChallengeID  string `msgpack:"challenge_id,omitempty"`

	TournamentID string            `msgpack:"tournament_id,omitempty"`
	UserID       uint64            `msgpack:"user_id,omitempty"`
	Config       map[string]any    `msgpack:"config,omitempty"`
	AdjudicationResult string      `msgpack:"adjudication_result,omitempty"`

	PongNonce uint64 `msgpack:"pong_nonce,omitempty"`

	SearchFilters map[string]any `msgpack:"search_filters,omitempty"`
}

// Message is one server-to-client frame's payload.
type Message struct {
	Type MessageType `msgpack:"type"`

	GameUpdateKind GameUpdateKind `msgpack:"game_update_kind,omitempty"`
	GameID         string         `msgpack:"game_id,omitempty"`
	Piece          string         `msgpack:"piece,omitempty"`
	Destination    string         `msgpack:"destination,omitempty"`
	Control        string         `msgpack:"control,omitempty"`
	WhiteLeftMs    int64          `msgpack:"white_left_ms,omitempty"`
	BlackLeftMs    int64          `msgpack:"black_left_ms,omitempty"`
	UrgentGameIDs  []string       `msgpack:"urgent_game_ids,omitempty"`
	GameIDs        []string       `msgpack:"game_ids,omitempty"`

	ChallengeID string `msgpack:"challenge_id,omitempty"`

	TournamentID string `msgpack:"tournament_id,omitempty"`

	UserID uint64 `msgpack:"user_id,omitempty"`
	Online bool   `msgpack:"online,omitempty"`

	PingNonce uint64 `msgpack:"ping_nonce,omitempty"`
	PingValue int64  `msgpack:"ping_value,omitempty"`

	ErrUserID     uint64 `msgpack:"err_user_id,omitempty"`
	ErrField      string `msgpack:"err_field,omitempty"`
	ErrReason     string `msgpack:"err_reason,omitempty"`
	ErrStatusCode int    `msgpack:"err_status_code,omitempty"`
}

// CommonMessage is the top-level tagged union framed on the wire.
type CommonMessage struct {
	Kind    Kind     `msgpack:"kind"`
	Request *Request `msgpack:"request,omitempty"`
	Message *Message `msgpack:"message,omitempty"`
}

// Encode marshals a CommonMessage to MessagePack bytes for a binary
// WebSocket frame.
func Encode(cm CommonMessage) ([]byte, error) {
	b, err := msgpack.Marshal(cm)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return b, nil
}

// Decode unmarshals a binary WebSocket frame into a CommonMessage.
func Decode(data []byte) (CommonMessage, error) {
	var cm CommonMessage
	if err := msgpack.Unmarshal(data, &cm); err != nil {
		return CommonMessage{}, fmt.Errorf("wire: decode: %w", err)
	}
	return cm, nil
}

// EncodeRequest is a convenience wrapper for sending a client Request.
func EncodeRequest(req Request) ([]byte, error) {
	return Encode(CommonMessage{Kind: KindClient, Request: &req})
}

// EncodeMessage is a convenience wrapper for sending a server Message.
func EncodeMessage(msg Message) ([]byte, error) {
	return Encode(CommonMessage{Kind: KindServer, Message: &msg})
}

// NewError builds the §6 ServerResult::Err shape as a Message.
func NewError(userID uint64, field, reason string, statusCode int) Message {
	return Message{
		Type:          MsgError,
		ErrUserID:     userID,
		ErrField:      field,
		ErrReason:     reason,
		ErrStatusCode: statusCode,
	}
}
