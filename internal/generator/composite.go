// Package generator assembles passwords from character classes.
//
// A Composite draws a fixed number of characters from each of its classes in
// order, then shuffles the whole result so class order does not leak into the
// password.
package generator

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"
	"unicode/utf8"
)

// ErrInvalidConfiguration is returned when a class cannot be drawn from.
var ErrInvalidConfiguration = errors.New("invalid character class configuration")

// Container combines leaves into a single password.
type Container interface {
	Add(leaf Leaf)
	Generate() (string, error)
}

// Composite is the standard Container. It is not safe for concurrent use;
// create one per goroutine.
type Composite struct {
	leaves []Leaf
	rng    *rand.Rand
}

// Option configures a Composite.
type Option func(*Composite)

// WithSeed makes the composite's output reproducible.
func WithSeed(seed [32]byte) Option {
	return func(c *Composite) {
		c.rng = rand.New(rand.NewChaCha8(seed))
	}
}

// New creates an empty composite whose engine is seeded from the platform
// entropy source.
func New(opts ...Option) *Composite {
	c := &Composite{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		var seed [32]byte
		crand.Read(seed[:])
		c.rng = rand.New(rand.NewChaCha8(seed))
	}
	return c
}

// NewDefault returns a composite producing 2 symbols, 2 digits, 2 uppercase
// and 4 lowercase characters.
func NewDefault(opts ...Option) *Composite {
	c := New(opts...)
	for _, leaf := range DefaultClasses() {
		c.Add(leaf)
	}
	return c
}

// DefaultClasses returns the classes used by NewDefault, in order.
func DefaultClasses() []CharacterClass {
	return []CharacterClass{Symbols(2), Digits(2), Upper(2), Lower(4)}
}

// Add appends a leaf. Leaves contribute in the order they were added.
func (c *Composite) Add(leaf Leaf) {
	c.leaves = append(c.leaves, leaf)
}

// Len returns the number of characters Generate will produce.
func (c *Composite) Len() int {
	var n int
	for _, leaf := range c.leaves {
		n += leaf.Length()
	}
	return n
}

// Generate draws each leaf's characters and returns them shuffled.
func (c *Composite) Generate() (string, error) {
	for i, leaf := range c.leaves {
		if err := validate(leaf); err != nil {
			return "", fmt.Errorf("class %d (%s): %w", i, leafName(leaf), err)
		}
	}

	out := make([]rune, 0, c.Len())
	for _, leaf := range c.leaves {
		chars := []rune(leaf.Alphabet())
		for range leaf.Length() {
			out = append(out, chars[c.rng.IntN(len(chars))])
		}
	}

	c.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return string(out), nil
}

func validate(leaf Leaf) error {
	if leaf.Length() < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidConfiguration, leaf.Length())
	}
	alphabet := leaf.Alphabet()
	if alphabet == "" {
		return fmt.Errorf("%w: empty alphabet", ErrInvalidConfiguration)
	}
	if !utf8.ValidString(alphabet) {
		return fmt.Errorf("%w: alphabet is not valid UTF-8", ErrInvalidConfiguration)
	}
	return nil
}

func leafName(leaf Leaf) string {
	if n, ok := leaf.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	return "unnamed"
}
