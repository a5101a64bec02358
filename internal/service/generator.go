package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/generator"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/model"
)

const (
	ClassCustom = "custom"

	MaxClasses = 16
)

var (
	ErrUnknownClass     = errors.New("unknown character class")
	ErrAlphabetRequired = errors.New("custom class requires a non-empty alphabet")
	ErrNegativeLength   = errors.New("class length must not be negative")
	ErrLengthTooLong    = errors.New("password length exceeds the maximum")
	ErrTooManyClasses   = errors.New("too many character classes")
)

// GeneratorService turns class specs into passwords.
type GeneratorService struct {
	maxLength int
}

// NewGeneratorService creates a GeneratorService limiting passwords to
// maxLength characters.
func NewGeneratorService(maxLength int) *GeneratorService {
	return &GeneratorService{maxLength: maxLength}
}

// Generate produces a password for req. An empty class list uses the default
// configuration.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	return s.GenerateFrom(req.Classes)
}

// GenerateFrom produces a password from classes.
func (s *GeneratorService) GenerateFrom(classes []model.ClassSpec) (model.GenerateResponse, error) {
	c, err := s.Build(classes)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	password, err := c.Generate()
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: password,
		Length:   utf8.RuneCountInString(password),
	}, nil
}

// Build validates classes and returns a freshly seeded composite for them.
// Composites are not shared between calls.
func (s *GeneratorService) Build(classes []model.ClassSpec) (*generator.Composite, error) {
	if len(classes) == 0 {
		return generator.NewDefault(), nil
	}

	leaves, err := s.Validate(classes)
	if err != nil {
		return nil, err
	}

	c := generator.New()
	for _, leaf := range leaves {
		c.Add(leaf)
	}
	return c, nil
}

// Validate checks classes against the service limits and resolves them to
// character classes.
func (s *GeneratorService) Validate(classes []model.ClassSpec) ([]generator.CharacterClass, error) {
	if len(classes) > MaxClasses {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyClasses, len(classes), MaxClasses)
	}

	leaves := make([]generator.CharacterClass, 0, len(classes))
	var total int
	for i, spec := range classes {
		leaf, err := resolveClass(spec)
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", i, err)
		}
		// total never exceeds maxLength, so the subtraction cannot overflow.
		if leaf.Length() > s.maxLength-total {
			return nil, fmt.Errorf("%w: class %d pushes the total past %d", ErrLengthTooLong, i, s.maxLength)
		}
		total += leaf.Length()
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

func resolveClass(spec model.ClassSpec) (generator.CharacterClass, error) {
	if spec.Length < 0 {
		return generator.CharacterClass{}, ErrNegativeLength
	}

	if spec.Class == ClassCustom {
		if spec.Alphabet == "" || !utf8.ValidString(spec.Alphabet) {
			return generator.CharacterClass{}, ErrAlphabetRequired
		}
		return generator.NewCharacterClass(ClassCustom, spec.Alphabet, spec.Length), nil
	}

	alphabet, ok := generator.Alphabets[spec.Class]
	if !ok {
		return generator.CharacterClass{}, fmt.Errorf("%w: %q", ErrUnknownClass, spec.Class)
	}
	return generator.NewCharacterClass(spec.Class, alphabet, spec.Length), nil
}

// IsValidationError reports whether err was caused by bad client input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownClass) ||
		errors.Is(err, ErrAlphabetRequired) ||
		errors.Is(err, ErrNegativeLength) ||
		errors.Is(err, ErrLengthTooLong) ||
		errors.Is(err, ErrTooManyClasses) ||
		errors.Is(err, generator.ErrInvalidConfiguration)
}
