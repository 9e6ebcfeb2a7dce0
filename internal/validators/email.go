package validators

import (
	"net"
	"net/mail"
	"strings"
)

// ValidEmailFormat checks the address shape only, no network calls. Used on
// the public booking form where latency matters.
func ValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// DeliverableEmailDomain checks that the domain can actually receive mail,
// via MX records with an A/AAAA fallback. Used at staff registration, where
// the address becomes a login.
func DeliverableEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
