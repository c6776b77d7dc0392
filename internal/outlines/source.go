// Package outlines loads per-stroke outline data for characters.
//
// Payloads follow the hanzi-writer-data layout: a JSON object with the SVG
// path of every stroke in writing order, the stroke medians, and the indices
// of the strokes that belong to the radical.
package outlines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCharacterNotFound is matched by every *CharacterNotFoundError.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterNotFoundError reports that a source has no data for Char.
type CharacterNotFoundError struct {
	Char   string
	Source string
}

func (e *CharacterNotFoundError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: character %q not found", e.Source, e.Char)
	}
	return fmt.Sprintf("character %q not found", e.Char)
}

// Is lets errors.Is match ErrCharacterNotFound.
func (e *CharacterNotFoundError) Is(target error) bool {
	return target == ErrCharacterNotFound
}

// Character is the outline data of one character.
type Character struct {
	Strokes    []string       `json:"strokes"`
	Medians    [][][2]float64 `json:"medians,omitempty"`
	RadStrokes []int          `json:"radStrokes,omitempty"`
}

// Source returns the outline data for a single character.
type Source interface {
	Load(ctx context.Context, char string) (*Character, error)
}

// Decode validates and decodes a payload.
func Decode(data []byte) (*Character, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding outline payload: %w", err)
	}
	return &c, nil
}

// Encode serializes c in the payload layout.
func Encode(c *Character) ([]byte, error) {
	return json.Marshal(c)
}
