package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a detected injection pattern in a search
// value.
type InjectionCheckResult struct {
	Fingerprint string
	Value       string
}

// CheckSearchValue screens a user-supplied search value with libinjection.
// Returns nil when the value is clean. Search values are always bound as
// parameters, so this is belt-and-braces: it keeps hostile strings out of
// ILIKE patterns and out of the logs.
func CheckSearchValue(value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		Value:       value,
	}
}

// FilterSearchValues drops values that fail the injection screen, returning
// the clean remainder and the rejects.
func FilterSearchValues(values []string) (clean []string, rejected []*InjectionCheckResult) {
	for _, v := range values {
		if res := CheckSearchValue(v); res != nil {
			rejected = append(rejected, res)
			continue
		}
		clean = append(clean, v)
	}
	return clean, rejected
}
