package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Fingerprint returns the stable content identifier for a record. An upstream
// fingerprint is trusted when present; otherwise one is derived from the
// identifying tuple so that re-ingesting overlapping feed pulls converges on
// the same row. The derived form is insensitive to description casing and
// surrounding whitespace, which upstream normalizations churn freely.
func Fingerprint(rec *Record) string {
	if fp := strings.TrimSpace(rec.Fingerprint); fp != "" {
		return fp
	}

	// The amount is encoded at full precision: rounding here would collapse
	// distinct records into one fingerprint.
	payload := fmt.Sprintf("%s|%s|%s|%s",
		rec.AccountID,
		rec.Day.Format("2006-01-02"),
		strconv.FormatFloat(rec.Amount, 'f', -1, 64),
		strings.ToLower(strings.TrimSpace(rec.Description)),
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
