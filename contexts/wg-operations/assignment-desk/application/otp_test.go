package application

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate otp failed: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		if _, err := strconv.Atoi(otp); err != nil {
			t.Fatalf("expected numeric otp, got %q", otp)
		}
	}
}

func TestGenerateSealIDFormat(t *testing.T) {
	now := time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)
	sealID, err := GenerateSealID(now)
	if err != nil {
		t.Fatalf("generate seal failed: %v", err)
	}

	parts := strings.Split(sealID, "-")
	if len(parts) != 3 || parts[0] != "SEAL" {
		t.Fatalf("unexpected seal shape %q", sealID)
	}
	if parts[1] != strings.ToUpper(strconv.FormatInt(now.Unix(), 36)) {
		t.Fatalf("expected base36 timestamp segment, got %q", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Fatalf("expected 4 char suffix, got %q", parts[2])
	}
	if sealID != strings.ToUpper(sealID) {
		t.Fatalf("expected uppercase seal id, got %q", sealID)
	}
}
