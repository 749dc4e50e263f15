package ports

// Frontend is a long-running surface started by the daemon
type Frontend interface {
	// Start begins serving in the background
	Start() error

	// Stop shuts the frontend down
	Stop() error
}
