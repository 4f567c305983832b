package ledger

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Upstream feeds disagree on field names and nesting. Each logical attribute
// resolves through an ordered list of candidate paths (dot-separated for
// nested objects); the first non-empty match wins. Adding a new upstream
// shape is a data change here, not a code change.
var payloadPaths = map[string][]string{
	"externalId":   {"id", "transactionId", "transaction_id"},
	"accountId":    {"accountId", "account_id", "account.id", "account"},
	"connectionId": {"connectionId", "connection_id", "connection", "itemId", "item_id"},
	"fingerprint":  {"fingerprint", "hash"},
	"description":  {"description", "desc", "narration"},
	"amount":       {"amount", "value"},
	"date":         {"date", "transactionDate", "transaction_date", "postDate", "post_date", "timestamp"},
	"type":         {"type", "class", "transactionType"},
	"category":     {"category.name", "categoryName", "category_name", "enrich.category.groups.personalFinance.name"},
	"merchant":     {"merchant.name", "merchantName", "merchant_name"},
}

// Transfer indicators matched against the lower-cased description. Whole-word
// matches so "transferred funds abroad" style false positives stay rare.
var transferPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btransfer\b`),
	regexp.MustCompile(`\btfr\b`),
	regexp.MustCompile(`\b(?:to|from) savings\b`),
	regexp.MustCompile(`\b(?:to|from) checking\b`),
	regexp.MustCompile(`\binternal transfer\b`),
	regexp.MustCompile(`\bbetween accounts\b`),
	regexp.MustCompile(`\bown account\b`),
}

var dayFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapPayload converts one raw upstream payload into a record ready for
// fingerprinting and upsert. It is a pure transform: now is the substitute
// timestamp when the payload carries none. The only failure mode is
// ErrMalformedPayload, returned when the amount cannot be parsed as a number;
// every other missing or broken field degrades to a safe default.
func MapPayload(payload map[string]any, now time.Time) (*Record, error) {
	amountRaw, ok := resolvePath(payload, payloadPaths["amount"])
	if !ok {
		return nil, fmt.Errorf("%w: amount is missing", ErrMalformedPayload)
	}
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	description := resolveString(payload, payloadPaths["description"])
	day := resolveDay(payload, now)

	rec := &Record{
		ExternalID:   resolveString(payload, payloadPaths["externalId"]),
		AccountID:    resolveString(payload, payloadPaths["accountId"]),
		ConnectionID: resolveString(payload, payloadPaths["connectionId"]),
		Fingerprint:  resolveString(payload, payloadPaths["fingerprint"]),
		Amount:       amount,
		Description:  description,
		Day:          day,
		Kind:         classifyKind(resolveString(payload, payloadPaths["type"]), description, amount),
	}

	if category := resolveString(payload, payloadPaths["category"]); category != "" {
		rec.Category = &category
	}
	if merchant := resolveString(payload, payloadPaths["merchant"]); merchant != "" {
		rec.Merchant = &merchant
	}

	return rec, nil
}

// classifyKind decides the record kind. An explicit transfer marker or a
// transfer-indicating description wins outright; otherwise the amount sign is
// the only signal trusted. Upstream DEBIT/CREDIT style labels are ignored for
// income vs expense because provider vocabularies are inconsistent.
func classifyKind(typeLabel, description string, amount float64) string {
	if strings.EqualFold(strings.TrimSpace(typeLabel), "transfer") {
		return KindTransfer
	}
	desc := strings.ToLower(description)
	for _, p := range transferPatterns {
		if p.MatchString(desc) {
			return KindTransfer
		}
	}
	if amount < 0 {
		return KindExpense
	}
	return KindIncome
}

// resolveDay extracts the calendar day from whichever date field is present.
// Time-of-day and zone are discarded. A string that no known layout accepts
// is split on 'T' and the date portion is retried verbatim; if even that
// fails, or no date field exists at all, now's day substitutes.
func resolveDay(payload map[string]any, now time.Time) time.Time {
	raw, ok := resolvePath(payload, payloadPaths["date"])
	if !ok {
		return truncateToDay(now)
	}

	s, ok := raw.(string)
	if !ok {
		return truncateToDay(now)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return truncateToDay(now)
	}

	for _, layout := range dayFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t)
		}
	}

	// Recovery path for ISO-8601-ish strings with odd offsets or fractions.
	if datePart, _, found := strings.Cut(s, "T"); found {
		if t, err := time.Parse("2006-01-02", datePart); err == nil {
			return truncateToDay(t)
		}
	}

	return truncateToDay(now)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseAmount(v any) (float64, error) {
	switch amount := v.(type) {
	case float64:
		return amount, nil
	case float32:
		return float64(amount), nil
	case int:
		return float64(amount), nil
	case int64:
		return float64(amount), nil
	case json.Number:
		f, err := amount.Float64()
		if err != nil {
			return 0, fmt.Errorf("failed to parse amount %q: %v", amount.String(), err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse amount %q: %v", amount, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("amount has unsupported type %T", v)
	}
}

// resolvePath walks the ordered candidate paths and returns the first value
// present and non-nil.
func resolvePath(payload map[string]any, paths []string) (any, bool) {
	for _, path := range paths {
		if v, ok := lookupPath(payload, path); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// resolveString is resolvePath for string-valued attributes; non-string and
// empty values are skipped so later candidates still get a chance.
func resolveString(payload map[string]any, paths []string) string {
	for _, path := range paths {
		v, ok := lookupPath(payload, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookupPath(payload map[string]any, path string) (any, bool) {
	current := any(payload)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
