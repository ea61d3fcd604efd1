// =============================================================================
// SDMX Catalog Flattener - Item Name Splitting
// =============================================================================
//
// This module splits an item name such as "Foo Bar (XYZ)" into the display
// name and the id.
//
// MODES:
//   compat     "Foo Bar (XYZ)" -> "Foo Bar", "(XYZ"
//   separator  "Foo Bar (XYZ)" -> "Foo Bar", "XYZ"
//
// =============================================================================

package flattener

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoParen is returned for an item name without a '(' character.
var ErrNoParen = errors.New("no '(' in item name")

// ErrUnbalanced is returned in separator mode when the last '(' of an item
// name is never closed.
var ErrUnbalanced = errors.New("unclosed '(' in item name")

// NameSplit selects how an item name is split into display name and id.
type NameSplit string

const (
	// SplitCompat reproduces the catalog export that downstream consumers
	// already read: the display name loses the two characters " (" and the
	// id keeps its opening paren but loses the final character.
	//   "Foo Bar (XYZ)" -> "Foo Bar", "(XYZ"
	SplitCompat NameSplit = "compat"

	// SplitSeparator trims whatever whitespace precedes the last paren group
	// and returns the text inside the parens as the id.
	//   "Foo Bar (XYZ)" -> "Foo Bar", "XYZ"
	//   "Foo(XYZ)"      -> "Foo", "XYZ"
	SplitSeparator NameSplit = "separator"
)

// ParseNameSplit validates a name split mode from configuration.
func ParseNameSplit(s string) (NameSplit, error) {
	switch mode := NameSplit(s); mode {
	case SplitCompat, SplitSeparator:
		return mode, nil
	case "":
		return SplitCompat, nil
	default:
		return "", fmt.Errorf("unknown name split mode %q (valid: %s, %s)", s, SplitCompat, SplitSeparator)
	}
}

// SplitName splits an item name at its last '(' into display name and id.
// The name must contain a '('; the last paren group is the id.
func SplitName(s string, mode NameSplit) (name, id string, err error) {
	idx := strings.LastIndex(s, "(")
	if idx < 0 {
		return "", "", ErrNoParen
	}

	switch mode {
	case SplitSeparator:
		closing := strings.Index(s[idx:], ")")
		if closing < 0 {
			return "", "", ErrUnbalanced
		}
		name = strings.TrimRightFunc(s[:idx], unicode.IsSpace)
		id = s[idx+1 : idx+closing]
		return name, id, nil

	default:
		// One character before the paren goes with it.
		end := idx
		if end > 0 {
			_, size := utf8.DecodeLastRuneInString(s[:end])
			end -= size
		}
		name = s[:end]

		// The final character is dropped from the id.
		_, size := utf8.DecodeLastRuneInString(s)
		id = s[idx : len(s)-size]
		return name, id, nil
	}
}
