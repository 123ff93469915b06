// Package structure builds Minecraft structure files from placed chains.
//
// A [Structure] is the content of a structure block file: a palette of
// block states, the blocks that use them and the size of the box they span.
// [Structure.Encode] writes the gzip-compressed NBT form that the game loads
// through a structure block or the /place command.
//
// [FromLayout] converts a [layout.Layout] into a structure of command
// blocks. Impulse, chain and repeat modes map to command_block,
// chain_command_block and repeating_command_block; each block carries its
// facing and conditional state plus a tile entity holding the command.
// Positions are shifted so that the occupied box starts at the origin.
//
// Entities such as armor stands can be added with [Structure.AddEntity];
// they count toward the structure size. FromLayout adds none.
package structure
