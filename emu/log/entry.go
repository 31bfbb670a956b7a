package log

// A LogContext adds fields to every log entry, whatever the module. The
// clock uses it to stamp entries with the current tick.
type LogContext interface {
	AddLogContext(z *EntryZ)
}

var contexts []LogContext

// AddContext registers c, its fields are appended to all subsequent entries.
// Contexts are global: only single-run commands register one.
func AddContext(c LogContext) {
	contexts = append(contexts, c)
}

// RemoveContext unregisters c.
func RemoveContext(c LogContext) {
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
