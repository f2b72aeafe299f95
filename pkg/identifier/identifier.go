// Package identifier produces the human-readable codes handed out by the
// federation: license numbers and commercial quote references.
//
// Neither generator guarantees uniqueness on its own. License numbers rely on
// the licences.numero unique index and callers retry once on a collision.
// Quote references are a best-effort year-scoped sequence: the caller scans
// the highest existing reference for the year, and the devis.reference unique
// index is the backstop for concurrent writers.
package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// LicensePrefix is the fixed two-letter prefix of every license number.
	LicensePrefix = "LC"

	licenseRandomLen = 6
	licenseAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// QuotePrefix is the fixed prefix of every quote reference.
	QuotePrefix = "REF"
)

var (
	licensePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{6}$`)
	quotePattern   = regexp.MustCompile(`^REF-(\d{4})-(\d{4})$`)
)

// NextLicenseNumber returns an 8-character code: the fixed prefix followed by
// six random uppercase alphanumerics.
func NextLicenseNumber() string {
	var sb strings.Builder
	sb.WriteString(LicensePrefix)
	max := big.NewInt(int64(len(licenseAlphabet)))
	for i := 0; i < licenseRandomLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a time-derived index rather than abort a validation.
			n = big.NewInt(time.Now().UnixNano() % int64(len(licenseAlphabet)))
		}
		sb.WriteByte(licenseAlphabet[n.Int64()])
	}
	return sb.String()
}

// ValidLicenseNumber reports whether s matches the license number format.
func ValidLicenseNumber(s string) bool {
	return licensePattern.MatchString(s)
}

// QuoteReference formats a reference for the given year and sequence,
// e.g. QuoteReference(2026, 12) == "REF-2026-0012".
func QuoteReference(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", QuotePrefix, year, seq)
}

// QuoteReferencePrefix returns the scan prefix for a year, e.g. "REF-2026-".
func QuoteReferencePrefix(year int) string {
	return fmt.Sprintf("%s-%d-", QuotePrefix, year)
}

// NextSequence returns the sequence to use after latest, where latest is the
// highest existing reference for the current year ("" when the year is
// fresh). Malformed references count as absent.
func NextSequence(latest string) int {
	m := quotePattern.FindStringSubmatch(latest)
	if m == nil {
		return 1
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return 1
	}
	return seq + 1
}
