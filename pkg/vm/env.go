package vm

import (
	"fmt"
	"sort"
	"strings"
)

// EnvEntry is a node of the environment tree: either a Value or a nested Env.
type EnvEntry interface {
	isEnvEntry()
}

// Env is the host-owned environment-variable tree. Scripts reach it through
// the `game.` prefix; the VM reads and writes the map the host passed in, so
// script writes are visible to the host and persist across runs.
type Env map[string]EnvEntry

func (Env) isEnvEntry() {}

// Lookup resolves a dotted path. An absent leaf reads as Undefined; an absent
// or non-map intermediate segment is ErrUnknownPath.
func (e Env) Lookup(path string) (Value, error) {
	node, leaf, err := e.walk(path)
	if err != nil {
		return Undefined, err
	}

	entry, ok := node[leaf]
	if !ok {
		return Undefined, nil
	}

	v, ok := entry.(Value)
	if !ok {
		return Undefined, fmt.Errorf("%w: %s", ErrNotAValue, path)
	}

	return v, nil
}

// Store writes a value at a dotted path, creating the leaf if needed. Every
// intermediate segment must already exist.
func (e Env) Store(path string, v Value) error {
	node, leaf, err := e.walk(path)
	if err != nil {
		return err
	}

	if _, isMap := node[leaf].(Env); isMap {
		return fmt.Errorf("%w: %s", ErrNotAValue, path)
	}
	node[leaf] = v

	return nil
}

// Put writes a value at a dotted path, creating intermediate maps as needed.
func (e Env) Put(path string, v Value) error {
	node, leaf := e, path
	if i := strings.LastIndex(path, "."); i >= 0 {
		var err error
		if node, err = e.Ensure(path[:i]); err != nil {
			return err
		}
		leaf = path[i+1:]
	}

	if _, isMap := node[leaf].(Env); isMap {
		return fmt.Errorf("%w: %s", ErrNotAValue, path)
	}
	node[leaf] = v

	return nil
}

// Ensure returns the map at a dotted path, creating every missing map on the way.
func (e Env) Ensure(path string) (Env, error) {
	node := e
	for _, field := range strings.Split(path, ".") {
		switch next := node[field].(type) {
		case Env:
			node = next
		case nil:
			child := Env{}
			node[field] = child
			node = child
		default:
			return nil, fmt.Errorf("%w: %s is not a map", ErrUnknownPath, field)
		}
	}

	return node, nil
}

// Merge copies other into e. Maps present on both sides are merged; values in
// other replace values in e.
func (e Env) Merge(other Env) error {
	for k, entry := range other {
		switch x := entry.(type) {
		case Env:
			node, ok := e[k].(Env)
			if !ok {
				if _, exists := e[k]; exists {
					return fmt.Errorf("%w: %s is not a map", ErrUnknownPath, k)
				}
				node = Env{}
				e[k] = node
			}
			if err := node.Merge(x); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		case Value:
			if _, isMap := e[k].(Env); isMap {
				return fmt.Errorf("%w: %s", ErrNotAValue, k)
			}
			e[k] = x
		}
	}

	return nil
}

// walk returns the map holding the last segment of path
func (e Env) walk(path string) (Env, string, error) {
	if e == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	fields := strings.Split(path, ".")
	node := e

	for _, field := range fields[:len(fields)-1] {
		entry, ok := node[field]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s is not in environment variables", ErrUnknownPath, field)
		}
		next, ok := entry.(Env)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s is not a map", ErrUnknownPath, field)
		}
		node = next
	}

	return node, fields[len(fields)-1], nil
}

// Flatten returns every value in the tree keyed by its dotted path.
func (e Env) Flatten() map[string]Value {
	out := make(map[string]Value)
	e.flatten("", out)
	return out
}

func (e Env) flatten(prefix string, out map[string]Value) {
	for k, entry := range e {
		switch x := entry.(type) {
		case Env:
			x.flatten(prefix+k+".", out)
		case Value:
			out[prefix+k] = x
		}
	}
}

// Paths returns the dotted paths of every value, sorted.
func (e Env) Paths() []string {
	flat := e.Flatten()
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FromMap converts decoded YAML/TOML/JSON data into an Env.
func FromMap(m map[string]any) (Env, error) {
	env := make(Env, len(m))
	for k, raw := range m {
		entry, err := toEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		env[k] = entry
	}
	return env, nil
}

func toEntry(raw any) (EnvEntry, error) {
	switch x := raw.(type) {
	case nil:
		return Undefined, nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case int:
		return NewNumber(float64(x)), nil
	case int64:
		return NewNumber(float64(x)), nil
	case uint64:
		return NewNumber(float64(x)), nil
	case float32:
		return NewNumber(float64(x)), nil
	case float64:
		return NewNumber(x), nil
	case Value:
		return x, nil
	case map[string]any:
		return FromMap(x)
	case map[any]any:
		conv := make(map[string]any, len(x))
		for k, v := range x {
			conv[fmt.Sprint(k)] = v
		}
		return FromMap(conv)
	default:
		return nil, fmt.Errorf("unsupported environment value of type %T", raw)
	}
}

// ToMap converts the tree back into plain Go values.
func (e Env) ToMap() map[string]any {
	out := make(map[string]any, len(e))
	for k, entry := range e {
		switch x := entry.(type) {
		case Env:
			out[k] = x.ToMap()
		case Value:
			switch x.Kind {
			case KindNumber:
				out[k] = x.Num
			case KindBool:
				out[k] = x.Bool
			case KindString:
				out[k] = x.Str
			default:
				out[k] = nil
			}
		}
	}
	return out
}
