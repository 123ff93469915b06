package chain

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/matzehuels/cmdtower/pkg/errors"
)

// ParseText parses the line based format.
func ParseText(data []byte) (*Chain, error) {
	c := &Chain{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var cmd Command
		if mode, rest, ok := cutMode(text); ok {
			if len(c.Commands) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidChain, "line %d: only the first command may set a mode", line)
			}
			cmd.Mode = mode
			text = rest
		}
		if rest, ok := cutConditional(text); ok {
			cmd.Conditional = true
			text = rest
		}
		cmd.Text = text
		c.Commands = append(c.Commands, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read line %d", line+1)
	}
	return c, nil
}

// MarshalText renders c in the line based format.
func MarshalText(c *Chain) []byte {
	var b strings.Builder
	if c.Name != "" {
		b.WriteString("# ")
		b.WriteString(c.Name)
		b.WriteByte('\n')
	}
	for i, cmd := range c.Commands {
		if i == 0 && cmd.Mode == ModeRepeat {
			b.WriteString(string(cmd.Mode))
			b.WriteString(": ")
		}
		if cmd.Conditional {
			b.WriteString("? ")
		}
		b.WriteString(cmd.Text)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func cutMode(text string) (Mode, string, bool) {
	for _, m := range []Mode{ModeRepeat, ModeImpulse} {
		if rest, ok := strings.CutPrefix(text, string(m)+":"); ok {
			return m, strings.TrimSpace(rest), true
		}
	}
	return "", text, false
}

func cutConditional(text string) (string, bool) {
	if rest, ok := strings.CutPrefix(text, "?"); ok {
		return strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(text, "conditional:"); ok {
		return strings.TrimSpace(rest), true
	}
	return text, false
}
