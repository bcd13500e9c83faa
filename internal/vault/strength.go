package vault

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// MinPassphraseLength is the minimum accepted master passphrase length.
const MinPassphraseLength = 12

// Strength describes an estimated passphrase quality.
type Strength struct {
	// Score is 0 (very weak) through 4 (excellent).
	Score            int
	Guesses          float64
	GuessesLog10     float64
	CrackTimeDisplay string
	Warning          string
	Suggestions      []string
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "123456": {},
	"12345678": {}, "123456789": {}, "qwerty": {}, "qwertyuiop": {},
	"letmein": {}, "welcome": {}, "admin": {}, "iloveyou": {},
	"monkey": {}, "dragon": {}, "sunshine": {}, "princess": {},
	"football": {}, "baseball": {}, "master": {}, "trustno1": {},
}

// CheckPassphrase reports whether a passphrase is acceptable as a vault
// master passphrase, with a human-readable message either way.
func CheckPassphrase(passphrase string) (bool, string) {
	if len(passphrase) < MinPassphraseLength {
		return false, fmt.Sprintf("Passphrase must be at least %d characters long.", MinPassphraseLength)
	}
	s := EstimateStrength(passphrase)
	if s.Score < 2 {
		msg := "Passphrase is too weak."
		if s.Warning != "" {
			msg += " " + s.Warning
		}
		if len(s.Suggestions) > 0 {
			msg += " " + strings.Join(s.Suggestions, " ")
		}
		return false, msg
	}
	switch s.Score {
	case 2:
		return true, "Passphrase is acceptable. " + strings.Join(s.Suggestions, " ")
	case 3:
		return true, "Passphrase strength is good."
	default:
		return true, "Passphrase strength is excellent."
	}
}

// EstimateStrength scores a passphrase from its length and character
// diversity. The estimate is intentionally simple; it gates obviously bad
// choices rather than modelling real attack cost.
func EstimateStrength(passphrase string) Strength {
	var s Strength

	lowered := strings.ToLower(passphrase)
	if _, ok := commonPasswords[lowered]; ok {
		s.Warning = "This is one of the most commonly used passwords."
		s.Suggestions = []string{"Use a longer passphrase made of unrelated words."}
		s.Guesses = float64(len(commonPasswords))
		s.GuessesLog10 = math.Log10(s.Guesses)
		s.CrackTimeDisplay = "instant"
		return s
	}

	if isSequentialRun(passphrase) {
		s.Score = 0
		s.Warning = "Sequences of consecutive characters are easy to guess."
		s.Suggestions = []string{"Use a longer passphrase made of unrelated words."}
		s.Guesses = 1000
		s.GuessesLog10 = 3
		s.CrackTimeDisplay = "instant"
		return s
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range passphrase {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	alphabet := 0
	if hasLower {
		alphabet += 26
	}
	if hasUpper {
		alphabet += 26
	}
	if hasDigit {
		alphabet += 10
	}
	if hasSymbol {
		alphabet += 33
	}
	if alphabet == 0 {
		alphabet = 1
	}

	// Repeated characters add far less than their face value; count each
	// repeat at a quarter of a fresh character.
	uniq := make(map[rune]struct{})
	runeCount := 0
	for _, r := range passphrase {
		uniq[r] = struct{}{}
		runeCount++
	}
	effectiveLen := float64(len(uniq)) + float64(runeCount-len(uniq))*0.25

	entropyBits := effectiveLen * math.Log2(float64(alphabet))
	s.GuessesLog10 = entropyBits * math.Log10(2)
	s.Guesses = math.Pow(10, math.Min(s.GuessesLog10, 300))

	switch {
	case entropyBits < 40:
		s.Score = 0
	case entropyBits < 56:
		s.Score = 1
	case entropyBits < 72:
		s.Score = 2
	case entropyBits < 96:
		s.Score = 3
	default:
		s.Score = 4
	}

	switch {
	case entropyBits < 40:
		s.CrackTimeDisplay = "minutes"
	case entropyBits < 56:
		s.CrackTimeDisplay = "days"
	case entropyBits < 72:
		s.CrackTimeDisplay = "years"
	default:
		s.CrackTimeDisplay = "centuries"
	}

	if s.Score < 2 {
		s.Warning = "Short or low-variety passphrases are easy to guess."
	}
	if s.Score <= 2 {
		if !hasSymbol || !hasDigit {
			s.Suggestions = append(s.Suggestions, "Add digits or symbols.")
		}
		if len(passphrase) < 16 {
			s.Suggestions = append(s.Suggestions, "Longer passphrases are stronger than complex short ones.")
		}
	}
	return s
}

// isSequentialRun reports whether the whole passphrase is a run of
// consecutive code points in either direction, like "abcdef" or "987654".
func isSequentialRun(passphrase string) bool {
	runes := []rune(passphrase)
	if len(runes) < 3 {
		return false
	}
	step := runes[1] - runes[0]
	if step != 1 && step != -1 {
		return false
	}
	for i := 2; i < len(runes); i++ {
		if runes[i]-runes[i-1] != step {
			return false
		}
	}
	return true
}
