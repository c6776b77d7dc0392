package outlines

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads <Dir>/<char>.json, the layout of an unpacked
// hanzi-writer-data package.
type DirSource struct {
	Dir string
}

// Load implements Source.
func (s DirSource) Load(ctx context.Context, char string) (*Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if char == "" || strings.ContainsAny(char, `/\`) || char == "." || char == ".." {
		return nil, &CharacterNotFoundError{Char: char, Source: "dir"}
	}

	path := filepath.Join(s.Dir, char+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &CharacterNotFoundError{Char: char, Source: "dir"}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Store writes c to the directory so DirSource can load it later.
func (s DirSource) Store(char string, c *Character) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating outline dir: %w", err)
	}
	data, err := Encode(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, char+".json"), data, 0644)
}
