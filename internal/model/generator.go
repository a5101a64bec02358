package model

// ClassSpec selects one character class and how many characters it contributes.
// Alphabet is only read when Class is "custom".
type ClassSpec struct {
	Class    string `json:"class"`
	Alphabet string `json:"alphabet,omitempty"`
	Length   int    `json:"length"`
}

// GenerateRequest represents a password generation request.
// An empty Classes list means the default 2 symbols, 2 digits, 2 upper, 4 lower.
type GenerateRequest struct {
	Classes []ClassSpec `json:"classes"`
}

// GenerateResponse represents a password generation response.
// Length counts characters, not bytes.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}
