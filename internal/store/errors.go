package store

import "errors"

var (
	// ErrNoStore is the panic value when a context carries no store
	ErrNoStore = errors.New("store: no task store in context; views must be created inside a store scope")

	ErrProjectNotFound = errors.New("store: project not found")
	ErrStaleRevision   = errors.New("store: task collection changed since it was read")
)
