// Package logevent parses command success events from Minecraft server logs.
//
// A command block or minecart with command output enabled writes one line per
// successful command:
//
//	[12:34:56] [Server thread/INFO]: [invoker: message]
//
// [Parse] turns such a line into an [Event]; [Scan] walks a whole log.
package logevent

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

// Event is one successful command execution.
type Event struct {
	Hour, Minute, Second int
	Invoker              string
	Message              string
}

var linePattern = regexp.MustCompile(`^\[(\d\d):(\d\d):(\d\d)\] \[Server thread/INFO\]: \[(.+?): (.+)]$`)

// Parse returns the event on line, or false if line is not a success event.
func Parse(line string) (Event, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	if h > 23 || min > 59 || s > 59 {
		return Event{}, false
	}
	return Event{Hour: h, Minute: min, Second: s, Invoker: m[4], Message: m[5]}, true
}

// TimeOfDay returns the event time as an offset from midnight.
func (e Event) TimeOfDay() time.Duration {
	return time.Duration(e.Hour)*time.Hour + time.Duration(e.Minute)*time.Minute + time.Duration(e.Second)*time.Second
}

// Clock returns the timestamp as hh:mm:ss.
func (e Event) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", e.Hour, e.Minute, e.Second)
}

func (e Event) String() string {
	return e.Clock() + " [" + e.Invoker + ": " + e.Message + "]"
}

// maxLine bounds a single log line. Command output can be long.
const maxLine = 1 << 20

// Scan calls fn for every event in r, in log order. Lines that are not
// events are skipped. Scanning stops at the first error returned by fn.
func Scan(r io.Reader, fn func(Event) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		e, ok := Parse(sc.Text())
		if !ok {
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Collect returns all events in r. A non-empty invoker keeps only events
// from that invoker.
func Collect(r io.Reader, invoker string) ([]Event, error) {
	var events []Event
	err := Scan(r, func(e Event) error {
		if invoker == "" || e.Invoker == invoker {
			events = append(events, e)
		}
		return nil
	})
	return events, err
}
