// internal/service/access/guard.go
package access

import (
	"path"
	"strings"
)

// appRoot is the landing page every tenant redirect goes to.
const appRoot = "/app"

// Reachable without an active plan. appRoot itself matches exactly; the others
// also cover their sub-paths.
var openPrefixes = []string{
	"/app/billing",
	"/app/subscribe",
	"/app/profile",
}

// Decision is the outcome of a navigation check. A disallowed navigation is a
// soft redirect, not an error.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Guard decides whether a user may navigate to requestPath inside the tenant
// mounted at tenantPrefix (for example "/global-jiu-jitsu").
func Guard(hasActivePlan bool, tenantPrefix, requestPath string) Decision {
	prefix := normalize(tenantPrefix)
	if prefix == "/" {
		prefix = ""
	}
	redirect := Decision{RedirectTo: prefix + appRoot}

	rel, ok := relative(prefix, normalize(requestPath))
	if !ok {
		return redirect
	}

	if hasActivePlan || isOpen(rel) {
		return Decision{Allowed: true}
	}
	return redirect
}

func isOpen(rel string) bool {
	if rel == appRoot {
		return true
	}
	for _, p := range openPrefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}

func relative(prefix, p string) (string, bool) {
	if prefix == "" {
		return p, true
	}
	if p == prefix {
		return "/", true
	}
	if strings.HasPrefix(p, prefix+"/") {
		return strings.TrimPrefix(p, prefix), true
	}
	return "", false
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
