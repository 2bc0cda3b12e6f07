// SPDX-License-Identifier: MIT
// Package builder - variable label schemes for sequential networks.
//
// Chain names its variables through a LabelFn. Schemes are selectable by name
// (ParseLabelScheme) so a configuration file can pick one:
//
//	numeric     0, 1, 2, ...
//	column      A, B, ..., Z, AA, AB, ...
//	prefix:<p>  <p>0, <p>1, ...

package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// Label scheme names accepted by ParseLabelScheme.
const (
	SchemeNumeric = "numeric"
	SchemeColumn  = "column"
	SchemePrefix  = "prefix:"
)

// LabelFn names the variable at a zero-based position in a chain. It must be
// pure, and distinct positions must get distinct labels since labels index
// the graph.
type LabelFn func(idx int) string

// DefaultLabelFn labels a variable by its position, e.g. 0→"0", 42→"42".
func DefaultLabelFn(idx int) string {
	return strconv.Itoa(idx)
}

// ColumnLabelFn labels variables like spreadsheet columns: 0→"A", 25→"Z",
// 26→"AA", 701→"ZZ". Panics if idx < 0.
func ColumnLabelFn(idx int) string {
	if idx < 0 {
		panic(fmt.Sprintf("ColumnLabelFn: negative position %d", idx))
	}
	var buf [16]byte
	i := len(buf)
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}

	return string(buf[i:])
}

// PrefixLabelFn labels variables as prefix + position, e.g. "x0", "x1".
func PrefixLabelFn(prefix string) LabelFn {
	return func(idx int) string {
		if idx < 0 {
			panic(fmt.Sprintf("PrefixLabelFn: negative position %d", idx))
		}
		return prefix + strconv.Itoa(idx)
	}
}

// ParseLabelScheme resolves a scheme name to its LabelFn.
// Returns ErrUnknownLabelScheme for any other name or an empty prefix.
func ParseLabelScheme(name string) (LabelFn, error) {
	switch {
	case name == SchemeNumeric:
		return DefaultLabelFn, nil
	case name == SchemeColumn:
		return ColumnLabelFn, nil
	case strings.HasPrefix(name, SchemePrefix) && len(name) > len(SchemePrefix):
		return PrefixLabelFn(strings.TrimPrefix(name, SchemePrefix)), nil
	default:
		return nil, fmt.Errorf("ParseLabelScheme(%q): %w", name, ErrUnknownLabelScheme)
	}
}

// WithPrefixLabels labels chain variables with PrefixLabelFn(prefix).
func WithPrefixLabels(prefix string) BuilderOption {
	return WithLabelScheme(PrefixLabelFn(prefix))
}

// WithColumnLabels labels chain variables with ColumnLabelFn.
func WithColumnLabels() BuilderOption {
	return WithLabelScheme(ColumnLabelFn)
}
