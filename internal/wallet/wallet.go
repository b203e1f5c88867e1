package wallet

import (
	"fmt"
	"math/big"
	"os"
	"strings"
)

// LoadPrivateKey loads a stark-curve private key from the first available
// source. Priority: explicit hex key (flag) → STARKNET_PRIVATE_KEY env →
// stdin when piped.
func LoadPrivateKey(hexKey string, fromStdin bool) (*big.Int, error) {
	if hexKey != "" {
		return ParsePrivateKey(hexKey)
	}

	if envKey := os.Getenv("STARKNET_PRIVATE_KEY"); envKey != "" {
		return ParsePrivateKey(envKey)
	}

	if fromStdin {
		return loadFromStdin()
	}

	return nil, fmt.Errorf("no private key source provided (use --private-key, STARKNET_PRIVATE_KEY env, or pipe to stdin)")
}

// ParsePrivateKey parses a hex (with or without 0x prefix) or decimal
// private key string.
func ParsePrivateKey(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)

	key := new(big.Int)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := key.SetString(s[2:], 16); !ok {
			return nil, fmt.Errorf("invalid hex private key")
		}
	} else if _, ok := key.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid private key: not hex or decimal")
	}

	if key.Sign() <= 0 {
		return nil, fmt.Errorf("private key must be positive")
	}
	return key, nil
}

// loadFromStdin reads a private key from piped stdin.
func loadFromStdin() (*big.Int, error) {
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no private key piped to stdin")
	}

	var key string
	if _, err := fmt.Scanln(&key); err != nil {
		return nil, fmt.Errorf("failed to read private key from stdin: %w", err)
	}
	return ParsePrivateKey(key)
}
