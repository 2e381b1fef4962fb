package memorylog

import "fmt"

// Renderer is the formatted-write collaborator: render a template and its
// arguments into dst, reporting the number of bytes the full rendering
// needed — which may exceed len(dst), signaling overflow rather than
// truncation — or false if rendering itself failed. It is treated as an
// opaque collaborator by the rest of this package, the Go counterpart of
// vsnprintf's "return the length that would have been written" contract.
type Renderer interface {
	Render(dst []byte, format string, args ...any) (n int, ok bool)
}

// defaultRenderer implements Renderer with fmt.Sprintf. It never reports
// failure: fmt's formatting verbs degrade to an inline error string
// rather than returning one, so there is nothing for this renderer to
// propagate as ok=false.
type defaultRenderer struct{}

func (defaultRenderer) Render(dst []byte, format string, args ...any) (int, bool) {
	s := fmt.Sprintf(format, args...)
	if len(s) <= len(dst) {
		copy(dst, s)
	}
	return len(s), true
}
