package ports

// LogSink records assistant calls for the audit log.
// Implementations must be safe for concurrent use.
type LogSink interface {
	Record(tool string, input any, outcome string)
}
