package generator

// Alphabets for the built-in character classes. The letter order matches the
// historical output of this tool and must not be "fixed".
const (
	DigitChars  = "0123456789"
	SymbolChars = "!@#$%^&*()[]{}?<>"
	UpperChars  = "ABCDEFGHIJKLMNOPQRSTUVXYWZ"
	LowerChars  = "abcdefghijklmnopqrstuvxywz"
)

// Built-in class names.
const (
	ClassDigits  = "digits"
	ClassSymbols = "symbols"
	ClassUpper   = "upper"
	ClassLower   = "lower"
)

// Alphabets maps built-in class names to their alphabets.
var Alphabets = map[string]string{
	ClassDigits:  DigitChars,
	ClassSymbols: SymbolChars,
	ClassUpper:   UpperChars,
	ClassLower:   LowerChars,
}

// Leaf is a single character class: the characters it may contribute and how many.
type Leaf interface {
	Alphabet() string
	Length() int
}

// CharacterClass is the standard Leaf implementation.
type CharacterClass struct {
	name     string
	alphabet string
	length   int
}

// NewCharacterClass creates a class drawing length characters from alphabet.
// Validation happens at generation time.
func NewCharacterClass(name, alphabet string, length int) CharacterClass {
	return CharacterClass{name: name, alphabet: alphabet, length: length}
}

// Digits returns a class of n characters from DigitChars.
func Digits(n int) CharacterClass { return NewCharacterClass(ClassDigits, DigitChars, n) }

// Symbols returns a class of n characters from SymbolChars.
func Symbols(n int) CharacterClass { return NewCharacterClass(ClassSymbols, SymbolChars, n) }

// Upper returns a class of n characters from UpperChars.
func Upper(n int) CharacterClass { return NewCharacterClass(ClassUpper, UpperChars, n) }

// Lower returns a class of n characters from LowerChars.
func Lower(n int) CharacterClass { return NewCharacterClass(ClassLower, LowerChars, n) }

// Name identifies the class in error messages.
func (c CharacterClass) Name() string { return c.name }

// Alphabet returns the characters the class draws from.
func (c CharacterClass) Alphabet() string { return c.alphabet }

// Length returns how many characters the class contributes.
func (c CharacterClass) Length() int { return c.length }
