package domain

import "errors"

var (
	ErrAllocationExhausted = errors.New("room code allocation exhausted")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomClosed          = errors.New("room no longer accepting players")
	ErrRoomFull            = errors.New("room full")
	ErrDuplicateName       = errors.New("duplicate player name")
	ErrMalformedRequest    = errors.New("malformed request")
)

// Wire reason strings shown to the requesting participant. Only the requester
// ever sees these; they are never broadcast.
const (
	ReasonAllocationExhausted = "Unable to assign a room ID. The server may be suffering from congestion at the moment. Please try again later."
	ReasonRoomNotFound        = "This game code does not exist"
	ReasonRoomFull            = "This game is full"
	ReasonRoomClosed          = "This game is no longer accepting more players"
	ReasonDuplicateName       = "Someone else already has that name"
	ReasonMalformedRequest    = "The request could not be understood"
)

// ReasonFor maps an error to its user-facing reason string. Unknown errors
// collapse to the malformed-request text so internal details never reach the
// wire.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrAllocationExhausted):
		return ReasonAllocationExhausted
	case errors.Is(err, ErrRoomNotFound):
		return ReasonRoomNotFound
	case errors.Is(err, ErrRoomClosed):
		return ReasonRoomClosed
	case errors.Is(err, ErrRoomFull):
		return ReasonRoomFull
	case errors.Is(err, ErrDuplicateName):
		return ReasonDuplicateName
	default:
		return ReasonMalformedRequest
	}
}
