package domain

import (
	"fmt"
	"strings"

	"github.com/sglre6355/shaken/internal/user"
)

// WhoisUsage is shown when !whois is called without a name.
const WhoisUsage = "usage: !whois <name>"

// NormalizeName strips the @ mention prefix and surrounding space.
func NormalizeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "@")
}

// DescribeUser formats a known user.
func DescribeUser(u user.User) string {
	return fmt.Sprintf("%s (id %d) uses color %s", u.Display, u.ID, u.Color)
}

// DescribeUnknown formats a name nobody has spoken under.
func DescribeUnknown(name string) string {
	return fmt.Sprintf("I haven't seen %s yet", name)
}
