// =============================================================================
// SDMX Catalog Flattener - Relaxed JSON Document Decoder
// =============================================================================
//
// This package reads hand-written catalog documents. The documents are JSON
// with relaxed syntax (unquoted keys, single-quoted strings, trailing commas,
// comments), which is a subset of Jsonnet, so the Jsonnet parser is used to
// build a syntax tree. The tree is then walked into plain Go values.
//
// VALUE MAPPING:
//   object  -> *orderedmap.OrderedMap (keys in source order)
//   array   -> []any
//   string  -> string
//   number  -> json.Number (the source literal)
//   boolean -> bool
//   null    -> nil
//
// The document is not evaluated. Anything other than a literal (references,
// arithmetic, function calls, imports) is rejected with ErrUnsupported.
//
// =============================================================================

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/go-jsonnet"
	"github.com/google/go-jsonnet/ast"
	"github.com/keboola/go-utils/pkg/orderedmap"
)

// ErrUnsupported is returned for document content that is not a literal value.
var ErrUnsupported = errors.New("unsupported expression")

// ErrNotFound is returned by Lookup when a path step does not exist.
var ErrNotFound = errors.New("not found")

// Value is a decoded document value. See the package comment for the
// concrete Go types it can hold.
type Value = any

// =============================================================================
// PARSING
// =============================================================================

// ReadFile reads and parses the document at path.
func ReadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(path, data)
}

// Parse parses a relaxed JSON document. The filename is only used in error
// messages.
func Parse(filename string, data []byte) (Value, error) {
	node, err := jsonnet.SnippetToAST(filename, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return toValue(node)
}

// toValue converts one syntax tree node into a Value.
func toValue(node ast.Node) (Value, error) {
	switch n := node.(type) {
	case *ast.LiteralNull:
		return nil, nil

	case *ast.LiteralBoolean:
		return n.Value, nil

	case *ast.LiteralString:
		return n.Value, nil

	case *ast.LiteralNumber:
		return json.Number(n.OriginalString), nil

	case *ast.Unary:
		// Signed numbers are parsed as a unary operator applied to a literal.
		num, ok := n.Expr.(*ast.LiteralNumber)
		if !ok {
			return nil, unsupported(node)
		}
		switch n.Op {
		case ast.UopMinus:
			return json.Number("-" + num.OriginalString), nil
		case ast.UopPlus:
			return json.Number(num.OriginalString), nil
		default:
			return nil, unsupported(node)
		}

	case *ast.Array:
		out := make([]any, 0, len(n.Elements))
		for _, element := range n.Elements {
			v, err := toValue(element.Expr)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case *ast.DesugaredObject:
		out := orderedmap.New()
		for _, field := range n.Fields {
			key, ok := field.Name.(*ast.LiteralString)
			if !ok {
				return nil, unsupported(field.Name)
			}
			v, err := toValue(field.Body)
			if err != nil {
				return nil, err
			}
			out.Set(key.Value, v)
		}
		return out, nil

	case *ast.Object:
		out := orderedmap.New()
		for _, field := range n.Fields {
			var key string
			switch field.Kind {
			case ast.ObjectFieldID:
				key = string(*field.Id)
			case ast.ObjectFieldStr:
				s, ok := field.Expr1.(*ast.LiteralString)
				if !ok {
					return nil, unsupported(field.Expr1)
				}
				key = s.Value
			default:
				return nil, unsupported(node)
			}
			v, err := toValue(field.Expr2)
			if err != nil {
				return nil, err
			}
			out.Set(key, v)
		}
		return out, nil

	case *ast.Parens:
		return toValue(n.Inner)

	case *ast.Local:
		// The parser binds "$" around top-level objects; the binding is unused
		// by literal documents.
		return toValue(n.Body)

	default:
		return nil, unsupported(node)
	}
}

func unsupported(node ast.Node) error {
	if loc := node.Loc(); loc != nil {
		return fmt.Errorf("%s: %w", loc.String(), ErrUnsupported)
	}
	return ErrUnsupported
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Lookup walks a value along path. String steps index objects, int steps
// index arrays.
func Lookup(v Value, path ...any) (Value, error) {
	current := v
	for i, step := range path {
		switch step := step.(type) {
		case string:
			obj, ok := current.(*orderedmap.OrderedMap)
			if !ok {
				return nil, fmt.Errorf("%s: expected an object, found %s", formatPath(path[:i]), Kind(current))
			}
			next, found := obj.Get(step)
			if !found {
				return nil, fmt.Errorf("%s: %w", formatPath(path[:i+1]), ErrNotFound)
			}
			current = next
		case int:
			arr, ok := current.([]any)
			if !ok {
				return nil, fmt.Errorf("%s: expected an array, found %s", formatPath(path[:i]), Kind(current))
			}
			if step < 0 || step >= len(arr) {
				return nil, fmt.Errorf("%s: %w", formatPath(path[:i+1]), ErrNotFound)
			}
			current = arr[step]
		default:
			panic(fmt.Errorf("unexpected path step type %T", step))
		}
	}
	return current, nil
}

// Kind names the document type of v, for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case *orderedmap.OrderedMap:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func formatPath(path []any) string {
	out := "$"
	for _, step := range path {
		switch step := step.(type) {
		case string:
			out += "." + step
		case int:
			out += fmt.Sprintf("[%d]", step)
		}
	}
	return out
}
