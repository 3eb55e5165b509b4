package ports

// ErrorSink receives errors that an extension returned to the SDK and that
// cannot be propagated to the host.
type ErrorSink interface {
	Observe(context string, err error)
}
