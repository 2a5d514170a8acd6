// Package intent implements the text-pattern classifiers that drive the
// conversation state machine: coarse intent detection, a language-plausibility
// gate, and phone/OTP token extraction. Matching is substring-based on
// purpose; the package boundary exists so a real NLU component could replace
// it without touching the state machine.
package intent

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var loanKeywords = []string{
	"loan", "check loan", "loan details", "show loan",
	"view loan", "my loan", "loan account", "loan info",
}

var resetPatterns = []string{
	"old number", "wrong number", "different number", "change number",
	"not my number", "update number", "new number", "that's my old",
	"wait", "actually", "different phone",
}

var (
	phoneSeparators = regexp.MustCompile(`[\s\-()+]`)
	phoneRun        = regexp.MustCompile(`\d{10,12}`)
	otpToken        = regexp.MustCompile(`\b\d{4}\b`)
)

// Loan reports whether the message asks for loan information.
func Loan(message string) bool {
	return containsAny(message, loanKeywords)
}

// Reset reports whether the message asks to restart identity capture, e.g.
// because the wrong phone number was given.
func Reset(message string) bool {
	return containsAny(message, resetPatterns)
}

// NonEnglish is a plausibility heuristic: a message whose non-ASCII rune ratio
// exceeds 0.3 (and which is longer than 3 runes) is assumed not to be English.
// Known limitation: emoji-heavy English trips it too.
func NonEnglish(message string) bool {
	total := utf8.RuneCountInString(message)
	if total <= 3 {
		return false
	}
	nonASCII := 0
	for _, r := range message {
		if r > 0x7F {
			nonASCII++
		}
	}
	return float64(nonASCII)/float64(total) > 0.3
}

// ExtractPhone pulls a 10-digit phone number out of free text. Separators and
// prefixes are tolerated: after stripping spaces, dashes, parentheses and plus
// signs, the first run of 10 to 12 digits matches and its trailing 10 digits
// are taken, so country-code prefixes like +91 drop off.
func ExtractPhone(message string) (string, bool) {
	cleaned := phoneSeparators.ReplaceAllString(message, "")
	run := phoneRun.FindString(cleaned)
	if run == "" {
		return "", false
	}
	return run[len(run)-10:], true
}

// ExtractOTP pulls a standalone 4-digit token out of free text.
func ExtractOTP(message string) (string, bool) {
	token := otpToken.FindString(message)
	return token, token != ""
}

func containsAny(message string, patterns []string) bool {
	lower := strings.ToLower(message)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
