package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cmdtower/pkg/errors"
)

var clock = []Command{
	{Text: "scoreboard players add @a ticks 1", Mode: ModeRepeat},
	{Text: "execute if score @p ticks matches 20..", Mode: ModeChain},
	{Text: "scoreboard players set @a ticks 0", Mode: ModeChain, Conditional: true},
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"text", FormatText, `
# tick clock
repeat: scoreboard players add @a ticks 1

execute if score @p ticks matches 20..
? scoreboard players set @a ticks 0
`},
		{"text long prefix", FormatText, `repeat:scoreboard players add @a ticks 1
execute if score @p ticks matches 20..
conditional: scoreboard players set @a ticks 0`},
		{"yaml", FormatYAML, `
name: clock
commands:
  - command: scoreboard players add @a ticks 1
    mode: repeat
  - execute if score @p ticks matches 20..
  - command: scoreboard players set @a ticks 0
    conditional: true
`},
		{"toml", FormatTOML, `
name = "clock"
commands = [
  { command = "scoreboard players add @a ticks 1", mode = "repeat" },
  "execute if score @p ticks matches 20..",
  { command = "scoreboard players set @a ticks 0", conditional = true },
]
`},
		{"json", FormatJSON, `{
  "name": "clock",
  "commands": [
    {"command": "scoreboard players add @a ticks 1", "mode": "repeat"},
    "execute if score @p ticks matches 20..",
    {"command": "scoreboard players set @a ticks 0", "conditional": true}
  ]
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(clock, c.Commands); diff != "" {
				t.Errorf("commands (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		code   errors.Code
	}{
		{"late mode prefix", FormatText, "say a\nrepeat: say b", errors.ErrCodeInvalidChain},
		{"late mode field", FormatYAML, "commands:\n  - say a\n  - command: say b\n    mode: repeat\n", errors.ErrCodeInvalidChain},
		{"unknown mode", FormatYAML, "commands:\n  - command: say a\n    mode: pulse\n", errors.ErrCodeInvalidChain},
		{"blank command", FormatYAML, "commands:\n  - \"  \"\n", errors.ErrCodeInvalidChain},
		{"unknown yaml key", FormatYAML, "commandz: []\n", errors.ErrCodeInvalidFormat},
		{"bad yaml", FormatYAML, "commands: [", errors.ErrCodeInvalidFormat},
		{"unknown toml key", FormatTOML, "title = \"x\"\ncommands = []\n", errors.ErrCodeInvalidFormat},
		{"json schema", FormatJSON, `{"commands": [{"command": "say a", "extra": 1}]}`, errors.ErrCodeInvalidFormat},
		{"json missing commands", FormatJSON, `{"name": "x"}`, errors.ErrCodeInvalidFormat},
		{"json syntax", FormatJSON, `{`, errors.ErrCodeInvalidFormat},
		{"unknown format", Format("xml"), "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	c := &Chain{Commands: []Command{{Text: "say a"}, {Text: "say b"}}}
	if err := c.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.Commands[0].Mode != ModeImpulse || c.Commands[1].Mode != ModeChain {
		t.Errorf("modes = %s, %s", c.Commands[0].Mode, c.Commands[1].Mode)
	}
}

func TestEmptyChain(t *testing.T) {
	c, err := Parse([]byte("# nothing here\n"), FormatText)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
}

func TestMarshalTextRoundTrip(t *testing.T) {
	in := &Chain{Name: "clock", Commands: append([]Command(nil), clock...)}
	out, err := Parse(MarshalText(in), FormatText)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(in.Commands, out.Commands); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestHash(t *testing.T) {
	a := Hash(clock)
	if len(a) != 64 {
		t.Fatalf("hash length = %d", len(a))
	}
	if a != Hash(append([]Command(nil), clock...)) {
		t.Error("hash not stable")
	}
	changed := append([]Command(nil), clock...)
	changed[2].Conditional = false
	if a == Hash(changed) {
		t.Error("hash ignores conditional flag")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clock.mcc")
	if err := os.WriteFile(path, []byte("say hi\n? say again\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Name != "clock" || c.Len() != 2 || !c.Commands[1].IsConditional() {
		t.Errorf("got %+v", c)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "chain.xml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension err = %v", err)
	}
}

func TestParseFormatName(t *testing.T) {
	tests := map[string]Format{"": FormatText, "mcc": FormatText, "YML": FormatYAML, "toml": FormatTOML, "json": FormatJSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}
