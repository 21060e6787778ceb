package ports

// Executor runs tasks on the host's designated callback context, such as a
// UI thread. Execute must not block waiting for the task to run.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

// Execute calls f(task).
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}
