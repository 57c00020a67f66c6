package application

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const otpDigits = 6

// GenerateOTP returns a zero-padded 6-digit code from crypto/rand.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

const sealAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSealID builds a tamper-evident seal identifier of the form
// SEAL-<base36 unix timestamp>-<4 random base36 chars>.
func GenerateSealID(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(sealAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generating seal id: %w", err)
		}
		suffix[i] = sealAlphabet[n.Int64()]
	}
	ts := strconv.FormatInt(now.Unix(), 36)
	return "SEAL-" + strings.ToUpper(ts) + "-" + strings.ToUpper(string(suffix)), nil
}
