package utils

import (
	"fmt"
	"strings"
	"time"
)

// MessageType selects the color of a console message.
type MessageType int

// The message types of the command line output.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// Terminal escape sequences of the message colors.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var palette = [...]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// Colored toggles the terminal escape sequences emitted by DecorateText.
// It is turned off when the output is not a terminal.
var Colored = true

// DecorateText wraps s in the color of the message type. Unknown types are left as is.
func DecorateText(s string, t MessageType) string {
	if !Colored || t < 0 || int(t) >= len(palette) {
		return s
	}
	return palette[t] + s + DefaultColor
}

var timeUnits = []struct {
	unit   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// FormatTime prints a duration as days, hours, minutes and seconds.
// The leading units which are zero are omitted, e.g. "2m 3.00s".
func FormatTime(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	started := false
	for _, u := range timeUnits {
		n := d / u.unit
		if n > 0 || started {
			fmt.Fprintf(&b, "%d%s ", n, u.suffix)
			started = true
		}
		d -= n * u.unit
	}
	fmt.Fprintf(&b, "%.2fs", d.Seconds())
	return b.String()
}
