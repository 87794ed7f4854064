// Package id generates Stripe-style public identifiers ("sub_4fQ2...").
// Internal numeric keys never leave the API; every exposed resource is
// addressed by its prefixed short id.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 12
)

const (
	PrefixSubscriber = "sub"
	PrefixCompany    = "cmp"
	PrefixPartner    = "prt"
	PrefixPayment    = "pay"
	PrefixWebhook    = "whk"
	PrefixMessage    = "msg"
	PrefixCadenceRun = "run"
	PrefixOperator   = "op"
)

// Generate returns a cryptographically random base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

func GenerateWithPrefix(prefix string) (string, error) {
	s, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

// MustGenerateWithPrefix panics if the system random source fails.
func MustGenerateWithPrefix(prefix string) string {
	s, err := GenerateWithPrefix(prefix)
	if err != nil {
		panic(err)
	}
	return s
}

func NewSubscriberID() string { return MustGenerateWithPrefix(PrefixSubscriber) }
func NewCompanyID() string    { return MustGenerateWithPrefix(PrefixCompany) }
func NewPartnerID() string    { return MustGenerateWithPrefix(PrefixPartner) }
func NewPaymentID() string    { return MustGenerateWithPrefix(PrefixPayment) }
func NewWebhookID() string    { return MustGenerateWithPrefix(PrefixWebhook) }
func NewMessageID() string    { return MustGenerateWithPrefix(PrefixMessage) }
func NewCadenceRunID() string { return MustGenerateWithPrefix(PrefixCadenceRun) }
func NewOperatorID() string   { return MustGenerateWithPrefix(PrefixOperator) }

// ValidatePrefix checks that prefixedID is "<expectedPrefix>_<non-empty>".
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, rest, ok := strings.Cut(prefixedID, "_")
	if !ok || rest == "" {
		return fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return nil
}
