// Package normalize trims and canonicalizes user-supplied form values before
// they are validated or stored.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims a username. Case is preserved for display; lookups use the
// folded copy stored alongside it.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query or form parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// ObjectIDHex trims a hex id taken from a URL or form.
func ObjectIDHex(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
