package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cmdtower/pkg/errors"
)

// Mode is the kind of command block a command is stored in.
type Mode string

const (
	ModeImpulse Mode = "impulse"
	ModeChain   Mode = "chain"
	ModeRepeat  Mode = "repeat"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeImpulse, ModeChain, ModeRepeat:
		return true
	}
	return false
}

// Command is a single entry of a chain.
type Command struct {
	Text        string `json:"command" yaml:"command" toml:"command" bson:"command"`
	Conditional bool   `json:"conditional,omitempty" yaml:"conditional,omitempty" toml:"conditional" bson:"conditional,omitempty"`
	Mode        Mode   `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode" bson:"mode,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" toml:"name" bson:"name,omitempty"`
}

// IsConditional reports whether the command only runs after its
// predecessor succeeded.
func (c Command) IsConditional() bool { return c.Conditional }

// Chain is a named, ordered list of commands.
type Chain struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Commands []Command `json:"commands" yaml:"commands" toml:"commands"`
}

// Len returns the number of commands.
func (c *Chain) Len() int { return len(c.Commands) }

// Normalize fills in default modes: impulse for the first command, chain for
// the rest. It then validates the chain.
func (c *Chain) Normalize() error {
	for i := range c.Commands {
		if c.Commands[i].Mode == "" {
			if i == 0 {
				c.Commands[i].Mode = ModeImpulse
			} else {
				c.Commands[i].Mode = ModeChain
			}
		}
	}
	return c.Validate()
}

// Validate checks every command. Only the first command may use a mode
// other than chain.
func (c *Chain) Validate() error {
	for i, cmd := range c.Commands {
		if err := errors.ValidateCommandText(cmd.Text); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidChain, err, "command %d", i+1)
		}
		if cmd.Mode != "" && !cmd.Mode.Valid() {
			return errors.New(errors.ErrCodeInvalidChain, "command %d: unknown mode %q", i+1, cmd.Mode)
		}
		if i > 0 && cmd.Mode != "" && cmd.Mode != ModeChain {
			return errors.New(errors.ErrCodeInvalidChain, "command %d: only the first command may be %s", i+1, cmd.Mode)
		}
	}
	return nil
}

// Hash returns a stable SHA-256 hex digest of the commands, suitable as a
// cache key component. The chain name does not contribute.
func Hash(commands []Command) string {
	data, err := json.Marshal(commands)
	if err != nil {
		// Command only holds strings and bools.
		panic(fmt.Sprintf("chain: marshal: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
