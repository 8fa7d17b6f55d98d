// Package mei implements the frame codec for the Modbus TCP encapsulated
// interface transport (function code 43, MEI type 13) used by object-dictionary
// oriented devices such as the igus dryve D1 motor controller.
//
// A frame addresses one device parameter by its 16-bit object index and 8-bit
// sub-index and either reads or writes up to 4 little-endian data bytes. The
// codec is pure byte-layout logic; device semantics (which registers exist and
// what their values mean) live in the dryve package.
package mei
