package auth

import (
	"errors"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	// Library for password hashing using bcrypt, an adaptive, salted one-way hash.
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor. 10 keeps sign-in interactive.
const PasswordCost = 10

// MinPasswordLength is the minimum number of characters a password must have.
const MinPasswordLength = 8

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected up front.
const MaxPasswordBytes = 72

// PasswordSymbols is the punctuation set a password must draw at least one character from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

// Password policy violations. The messages are shown to API clients as-is.
var (
	ErrPasswordTooShort = errors.New("Password must contain at least 8 characters")
	ErrPasswordTooWeak  = errors.New("Password must contain at least one uppercase letter, one number, and one special character")
	ErrPasswordTooLong  = errors.New("Password must not be longer than 72 bytes")
)

// ValidatePassword enforces the acceptance policy: at least 8 characters, at most
// MaxPasswordBytes bytes, one uppercase letter, one digit and one symbol from PasswordSymbols.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if !HasRequiredCharacterClasses(password) {
		return ErrPasswordTooWeak
	}
	return nil
}

// HasRequiredCharacterClasses reports whether password has an uppercase letter,
// a digit and a symbol from PasswordSymbols.
func HasRequiredCharacterClasses(password string) bool {
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && digit && symbol
}

// HashPassword validates the password against the policy and returns its bcrypt hash.
// A policy violation is returned before any hashing work is done.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a candidate plaintext against a stored hash.
// `bcrypt.CompareHashAndPassword` runs in constant time; any error (mismatch or a
// corrupt hash) simply yields false.
func VerifyPassword(hashedPassword, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(candidate)) == nil
}

// dummyHash is a valid hash of a password nobody has. Checking a candidate against it
// costs the same as a real check.
var dummyHash = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("no-such-account-Passw0rd!"), PasswordCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
})

// DummyHash returns a bcrypt hash that no candidate matches. Sign-in compares against it
// when the email is unknown so both failures take the same time.
func DummyHash() string {
	return dummyHash()
}
