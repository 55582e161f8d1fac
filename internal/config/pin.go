package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// The PIN guards destructive commands. Six digits, stored as a SHA-256
// digest; enough to keep small hands off the delete keys, not a
// security boundary.

// ValidPIN reports whether pin is exactly six digits.
func ValidPIN(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HashPIN returns the hex SHA-256 digest of pin.
func HashPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

func (c *Config) HasPIN() bool { return c.PINHash != "" }

func (c *Config) SetPIN(pin string) error {
	if !ValidPIN(pin) {
		return errors.New("PIN must be exactly 6 digits")
	}
	c.PINHash = HashPIN(pin)
	return nil
}

func (c *Config) ClearPIN() { c.PINHash = "" }

// CheckPIN reports whether pin matches the stored digest. A config
// without a PIN matches nothing.
func (c *Config) CheckPIN(pin string) bool {
	return c.HasPIN() && c.PINHash == HashPIN(pin)
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
