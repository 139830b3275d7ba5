package mailbox

import (
	"regexp"
	"strings"
)

var (
	addrPattern = regexp.MustCompile(`<([^>]+)>`)
	namePattern = regexp.MustCompile(`^([^<]+)<`)
)

// ExtractAddress pulls the plain address out of a "Name <addr>" sender
// string. Without an angle-bracket form the trimmed input is returned.
func ExtractAddress(sender string) string {
	if m := addrPattern.FindStringSubmatch(sender); m != nil {
		return m[1]
	}
	return strings.TrimSpace(sender)
}

// ExtractName pulls the display name out of a "Name <addr>" sender
// string. Without an angle-bracket form it returns "".
func ExtractName(sender string) string {
	if m := namePattern.FindStringSubmatch(sender); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
