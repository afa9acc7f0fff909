package fixture

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Read when no fixture exists for a key.
var ErrNotFound = errors.New("fixture not found")

// Key identifies a fixture.
type Key struct {
	Version string // version label, e.g. "13"
	Name    string // class wire name without common prefix, e.g. "flow_add"
}

// Path returns the slash-separated relative path of the fixture file.
func (k Key) Path() string {
	return path.Join("of"+k.Version, k.Name+".data")
}

func (k Key) String() string {
	return k.Path()
}

// ParsePath is the inverse of Key.Path.
func ParsePath(rel string) (Key, bool) {
	dir, file := path.Split(strings.TrimPrefix(path.Clean(rel), "/"))
	dir = strings.TrimSuffix(dir, "/")
	if !strings.HasPrefix(dir, "of") || strings.Contains(dir, "/") || len(dir) <= 2 {
		return Key{}, false
	}
	name, ok := strings.CutSuffix(file, ".data")
	if !ok || name == "" {
		return Key{}, false
	}
	return Key{Version: dir[2:], Name: name}, true
}

// Source looks fixtures up.
type Source interface {
	// Exists reports whether a fixture is present.
	Exists(ctx context.Context, key Key) (bool, error)
	// Read returns the fixture bytes, or an error wrapping ErrNotFound.
	Read(ctx context.Context, key Key) ([]byte, error)
}

func notFound(key Key) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key.Path())
}
