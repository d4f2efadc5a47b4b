// Package ctl implements the CTL stream builder and reader (C6): the
// densely packed byte grammar of unit headers, jumps and delta bodies that
// the SpMV executor (package spmv) walks, plus the CSX container type that
// bundles a ctl stream with its values array.
//
// Grounded on original_source/patterns/ctl.h, which lays out exactly this
// flags/size/row_jump/column_jump/delta_body unit shape and the per-thread
// id_map persistence scheme (spec §4.6, §6).
package ctl

import "encoding/binary"

const (
	flagNewRow  = 0x80
	flagRowJump = 0x40
	tagMask     = 0x3F
)

// CSX is one thread's compressed, pattern-aware representation (spec §3):
// a ctl byte stream plus the values it indexes, immutable once built.
type CSX struct {
	NRows, NCols, NNZ int
	RowStart          int
	Ctl               []byte
	Values            []float64
	// IDMap maps a unit's local tag (the low 6 bits of its flags byte, 0..63)
	// to the global pattern_id (spec §4.3, §6's persistence id_map).
	IDMap []int64
	// Aligned pads delta bodies wider than one byte to their own width
	// boundary (spec §4.6's ALIGNED option).
	Aligned bool
	// FullColumnIndices stores absolute u32 columns instead of deltas.
	FullColumnIndices bool
}

func packWidth(buf []byte, width int, v uint64) []byte {
	switch width {
	case 8:
		return append(buf, byte(v))
	case 16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return append(buf, b...)
	case 32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return append(buf, b...)
	default:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v)
		return append(buf, b...)
	}
}

func unpackWidth(buf []byte, width int) uint64 {
	switch width {
	case 8:
		return uint64(buf[0])
	case 16:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 32:
		return uint64(binary.LittleEndian.Uint32(buf))
	default:
		return binary.LittleEndian.Uint64(buf)
	}
}
