package services

import "errors"

var (
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrLobbyExists     = errors.New("lobby already exists")
	ErrInvalidLobbyID  = errors.New("lobby id must be 1-64 letters, digits, '-' or '_'")
	ErrArchiveDisabled = errors.New("game archive is disabled")
)
