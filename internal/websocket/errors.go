package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrUnknownClient   = errors.New("no such connected client")
	ErrInvalidPayload  = errors.New("invalid event payload")
)
