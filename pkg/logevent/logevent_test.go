package logevent

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
		ok   bool
	}{
		{
			name: "success",
			line: "[12:34:56] [Server thread/INFO]: [@: Set the time to 1000]",
			want: Event{Hour: 12, Minute: 34, Second: 56, Invoker: "@", Message: "Set the time to 1000"},
			ok:   true,
		},
		{
			name: "invoker is shortest match",
			line: "[00:00:01] [Server thread/INFO]: [tower: a: b]",
			want: Event{Hour: 0, Minute: 0, Second: 1, Invoker: "tower", Message: "a: b"},
			ok:   true,
		},
		{name: "chat", line: "[12:34:56] [Server thread/INFO]: <steve> hello"},
		{name: "other thread", line: "[12:34:56] [User Authenticator #1/INFO]: [a: b]"},
		{name: "warning", line: "[12:34:56] [Server thread/WARN]: [a: b]"},
		{name: "bad clock", line: "[25:00:00] [Server thread/INFO]: [a: b]"},
		{name: "trailing text", line: "[12:34:56] [Server thread/INFO]: [a: b] extra"},
		{name: "empty", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.line)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEventFormatting(t *testing.T) {
	e := Event{Hour: 7, Minute: 5, Second: 3, Invoker: "tower", Message: "done"}
	if got := e.Clock(); got != "07:05:03" {
		t.Errorf("Clock() = %q", got)
	}
	if got := e.String(); got != "07:05:03 [tower: done]" {
		t.Errorf("String() = %q", got)
	}
	if got, want := e.TimeOfDay(), 7*time.Hour+5*time.Minute+3*time.Second; got != want {
		t.Errorf("TimeOfDay() = %v, want %v", got, want)
	}
}

const sampleLog = `[10:00:00] [Server thread/INFO]: Starting minecraft server version 1.20.4
[10:00:05] [Server thread/INFO]: [tower: Summoned new Armor Stand]
[10:00:05] [Server thread/INFO]: [@: Set the weather to clear]
[10:00:06] [Server thread/INFO]: Done (5.1s)!
[10:00:07] [Server thread/INFO]: [tower: Teleported Armor Stand]
`

func TestCollect(t *testing.T) {
	all, err := Collect(strings.NewReader(sampleLog), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Collect() = %d events, want 3", len(all))
	}

	tower, err := Collect(strings.NewReader(sampleLog), "tower")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var msgs []string
	for _, e := range tower {
		msgs = append(msgs, e.Message)
	}
	want := []string{"Summoned new Armor Stand", "Teleported Armor Stand"}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestScanStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Scan(strings.NewReader(sampleLog), func(Event) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Scan() err = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
