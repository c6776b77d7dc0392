package outlines

import "context"

// StaticSource serves characters from memory.
type StaticSource map[string]*Character

// Load implements Source.
func (s StaticSource) Load(ctx context.Context, char string) (*Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := s[char]
	if !ok {
		return nil, &CharacterNotFoundError{Char: char, Source: "static"}
	}
	return c, nil
}
