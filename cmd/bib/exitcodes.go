package main

// Exit codes returned by bib commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, invalid config)
	ExitDataError   = 3 // Data error (malformed input, unreadable library)
	ExitNotFound    = 4 // Referenced entity does not exist
	ExitConflict    = 5 // Delete refused: entity in use or protected
	ExitNetwork     = 6 // DOI lookup service unreachable or failing
)
