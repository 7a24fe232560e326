package utils

import (
	"strings"
	"testing"
)

func TestAnonymizeNameStable(t *testing.T) {
	first := AnonymizeName(42)
	second := AnonymizeName(42)
	if first != second {
		t.Errorf("same user should get the same label: %q vs %q", first, second)
	}
}

func TestAnonymizeNameFormat(t *testing.T) {
	for _, id := range []uint{1, 42, 999999} {
		label := AnonymizeName(id)
		if !strings.HasPrefix(label, AnonNamePrefix+"-") {
			t.Errorf("label %q missing prefix", label)
		}
		suffix := strings.TrimPrefix(label, AnonNamePrefix+"-")
		if len(suffix) != 4 {
			t.Errorf("label %q suffix should be 4 digits", label)
		}
	}
}

func TestAnonymizeNameDiffersAcrossUsers(t *testing.T) {
	if AnonymizeName(1) == AnonymizeName(2) {
		t.Error("adjacent user ids should not collide")
	}
}
