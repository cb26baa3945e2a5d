// Package header names the request headers shared by the server and
// the scripted clients that talk to it.
package header

const (
	// RequestedWith marks a request as issued by script rather than a
	// full page navigation.
	RequestedWith = "X-Requested-With"
	CSRFToken     = "X-CSRFToken"
	ContentType   = "Content-Type"
)

const XMLHttpRequest = "XMLHttpRequest"
