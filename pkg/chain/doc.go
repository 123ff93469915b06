// Package chain models command chains and reads them from chain documents.
//
// # Overview
//
// A chain is an ordered list of [Command] values. The first command starts
// the chain (an impulse or repeating block), every following command is a
// chain block that runs after its predecessor. Conditional commands only run
// when their predecessor succeeded.
//
// # Formats
//
// [Load] picks a format from the file extension:
//
//   - .mcc, .txt: one command per line
//   - .yaml, .yml: YAML document
//   - .toml: TOML document
//   - .json: JSON document, validated against an embedded JSON Schema
//
// The text format skips blank lines and lines starting with "#". A command
// prefixed with "?" or "conditional:" is conditional. The first command may
// carry a "repeat:" or "impulse:" prefix to pick the mode of its block:
//
//	# tick clock
//	repeat: scoreboard players add @a ticks 1
//	execute if score @p ticks matches 20..
//	? scoreboard players set @a ticks 0
//
// Structured documents hold a name and a list of commands. A command is
// either a bare string or an object:
//
//	name: clock
//	commands:
//	  - command: scoreboard players add @a ticks 1
//	    mode: repeat
//	  - execute if score @p ticks matches 20..
//	  - command: scoreboard players set @a ticks 0
//	    conditional: true
//
// Parsing errors carry [errors.ErrCodeInvalidFormat]; documents that parse
// but describe an unusable chain carry [errors.ErrCodeInvalidChain].
package chain
