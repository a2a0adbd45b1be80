package item

import (
	"fmt"
	"time"
)

// DateTag renders the [DD.MM.YY] stamp attached to new comments and items.
// The month is zero-based: January renders as "00".
func DateTag(t time.Time) string {
	return fmt.Sprintf("[%02d.%02d.%02d]", t.Day(), int(t.Month())-1, t.Year()%100)
}
