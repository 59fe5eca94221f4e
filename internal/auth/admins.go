package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/Behyna/streamstore/internal/config"
)

// AdminList is the set of phones allowed to run admin commands and use the
// dashboard API.
type AdminList struct {
	phones map[string]struct{}
	pin    string
}

func NewAdminList(cfg *config.Config) *AdminList {
	phones := make(map[string]struct{}, len(cfg.Admin.Numbers))
	for _, n := range cfg.Admin.Numbers {
		if p := NormalizePhone(n); p != "" {
			phones[p] = struct{}{}
		}
	}
	return &AdminList{phones: phones, pin: cfg.Admin.PIN}
}

func (a *AdminList) Contains(phone string) bool {
	_, ok := a.phones[NormalizePhone(phone)]
	return ok
}

func (a *AdminList) VerifyPIN(pin string) bool {
	if a.pin == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(pin)), []byte(a.pin)) == 1
}

// NormalizePhone keeps only the digits of a phone number or chat address.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
