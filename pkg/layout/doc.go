// Package layout holds the serializable result of placing a command chain.
//
// A [Layout] records where every command of a chain ended up, which way its
// block faces and how the placement search got there. Layouts are the unit
// that is cached, stored by the API, rendered and exported as structure
// files.
//
// Use [Place] to run the placement search for a chain and build a layout in
// one step, or [Factory] to plug block construction into
// [placement.Place] directly.
package layout
