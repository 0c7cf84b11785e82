// Package validate holds the pure input validators used by the directory.
// Validators are deterministic and perform no I/O; in particular there is
// no DNS or MX lookup behind Email.
package validate

import (
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

// Email reports whether s has the canonical local@domain.tld shape:
// a non-empty local part with no whitespace or extra "@", and a domain
// with at least one dot and no empty segments.
//
// The emailaddress parser handles the local part and character set but
// accepts dotless hosts such as "user@localhost", so the domain shape is
// checked separately.
func Email(s string) bool {
	if strings.Count(s, "@") != 1 || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if _, err := emailaddress.Parse(s); err != nil {
		return false
	}

	at := strings.Index(s, "@")
	if at == 0 {
		return false
	}

	domain := s[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, segment := range strings.Split(domain, ".") {
		if segment == "" {
			return false
		}
	}
	return true
}
