package audit

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// DescribeClient turns a raw User-Agent header into a short display string
// for audit events, e.g. "Chrome 120.0 on Mac OS X".
func DescribeClient(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "unknown client"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		// Non-browser clients (curl, SDKs) keep their raw identifier.
		return rawUA
	}
	if osInfo := ua.OS(); osInfo != "" {
		return fmt.Sprintf("%s %s on %s", name, version, osInfo)
	}
	return fmt.Sprintf("%s %s", name, version)
}
