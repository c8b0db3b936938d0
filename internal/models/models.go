// Package models provides domain models for the options analytics engine.
package models

import "fmt"

const (
	// ContractMultiplier is the number of shares one standard option contract controls.
	ContractMultiplier = 100
	// MaxLegs is the largest option leg set the engine accepts.
	MaxLegs = 8
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// Valid reports whether t is a known option type.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Position represents the direction of a holding.
type Position string

const (
	Long  Position = "LONG"
	Short Position = "SHORT"
)

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	return p == Long || p == Short
}

// Sign returns +1 for long and -1 for short holdings.
func (p Position) Sign() float64 {
	if p == Short {
		return -1
	}
	return 1
}

// LegKind is the closed set {Call, Put} x {Long, Short}.
// The zero value is not a valid kind.
type LegKind uint8

const (
	LongCall LegKind = iota + 1
	ShortCall
	LongPut
	ShortPut
)

// KindOf resolves an (OptionType, Position) pair. The boolean is false for unknown inputs.
func KindOf(t OptionType, p Position) (LegKind, bool) {
	switch {
	case t == Call && p == Long:
		return LongCall, true
	case t == Call && p == Short:
		return ShortCall, true
	case t == Put && p == Long:
		return LongPut, true
	case t == Put && p == Short:
		return ShortPut, true
	}
	return 0, false
}

// IsCall reports whether the kind is a call.
func (k LegKind) IsCall() bool {
	return k == LongCall || k == ShortCall
}

// IsLong reports whether the kind is a long holding.
func (k LegKind) IsLong() bool {
	return k == LongCall || k == LongPut
}

// Type returns the option type of the kind.
func (k LegKind) Type() OptionType {
	if k.IsCall() {
		return Call
	}
	return Put
}

// Position returns the position of the kind.
func (k LegKind) Position() Position {
	if k.IsLong() {
		return Long
	}
	return Short
}

func (k LegKind) String() string {
	switch k {
	case LongCall:
		return "long call"
	case ShortCall:
		return "short call"
	case LongPut:
		return "long put"
	case ShortPut:
		return "short put"
	}
	return fmt.Sprintf("LegKind(%d)", uint8(k))
}
