package review

import (
	"fmt"

	"github.com/dshills/ccw/internal/version"
)

// Signature returns the provenance line appended to every reply.
func Signature(model string) string {
	return fmt.Sprintf("Text generated with %s (v%s)/%s", version.Name, version.Version, model)
}

// FormatReply appends the provenance line to a model reply.
func FormatReply(reply, model string) string {
	return reply + "\n\n" + Signature(model)
}
