// Package events declares the typed events published while serving GraphQL
// requests. Subscribers attach through the eventbus; the otel package ships a
// subscriber that turns these into spans.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is published when an HTTP request reaches the GraphQL handler.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is published after the handler writes its response.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart is published before an operation executes. For batched
// requests one event is published per operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is published after an operation executes.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
