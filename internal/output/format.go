package output

import (
	"fmt"

	"github.com/dshills/ccw/internal/review"
)

func fmtFileLine(h Header) string {
	return fmt.Sprintf("File %d of %d %s", h.Index, h.Total, h.Source)
}

func fmtBanner(h Header) string {
	return fmt.Sprintf("Context window = %d\tkeep_alive = %d\ttimeout = %d", h.ContextWindow, h.KeepAlive, h.TimeoutSeconds)
}

func fmtDone(res review.Result) string {
	label := res.DoneLabel
	if label == "" {
		label = "Done"
	}
	if res.Cached {
		return fmt.Sprintf("%s in %d seconds (cached).", label, res.Seconds())
	}
	return fmt.Sprintf("%s in %d seconds.", label, res.Seconds())
}
