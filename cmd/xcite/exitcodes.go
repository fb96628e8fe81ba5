package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config)
	ExitNotFound    = 3 // Subject query matched no author
	ExitFetchError  = 4 // OpenAlex unreachable, rate limited, or a fetch was cut short
)
