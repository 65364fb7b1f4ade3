package watchdog

import (
	"slices"
	"strings"

	"github.com/loykin/svcwatch/internal/service"
)

// Target is the ordered, de-duplicated list of service names checked in one pass.
type Target []string

// Resolution is the result of Resolve along with what discovery contributed.
type Resolution struct {
	Target Target
	// Explicit is the trimmed explicit name list, duplicates removed.
	Explicit []string
	// Prefixes is the trimmed prefix list that was matched against the registry.
	Prefixes []string
	// Matched holds registry entries that matched a prefix, in enumeration order.
	Matched []service.Entry
	// Added counts matched names not already in Explicit.
	Added int
}

// Resolve builds the monitor target from explicit names and optional
// prefixes. Prefix matching is case-insensitive; de-duplication is exact on
// the name with the first occurrence kept. An enumeration failure is
// returned as *DiscoveryError, an empty result as *ConfigError.
func Resolve(ctrl service.Controller, names, prefixes []string) (Resolution, error) {
	var res Resolution
	res.Explicit = appendUnique([]string(nil), trimAll(names)...)
	res.Prefixes = trimAll(prefixes)

	if len(res.Explicit) == 0 && len(res.Prefixes) == 0 {
		return res, Configf("no services configured to monitor")
	}

	res.Target = append(Target(nil), res.Explicit...)
	if len(res.Prefixes) > 0 {
		entries, err := ctrl.List()
		if err != nil {
			return res, &DiscoveryError{Prefixes: res.Prefixes, Err: err}
		}
		lower := make([]string, len(res.Prefixes))
		for i, p := range res.Prefixes {
			lower[i] = strings.ToLower(p)
		}
		for _, e := range entries {
			if !hasAnyPrefix(strings.ToLower(e.Name), lower) {
				continue
			}
			res.Matched = append(res.Matched, e)
			before := len(res.Target)
			res.Target = appendUnique(res.Target, e.Name)
			res.Added += len(res.Target) - before
		}
	}

	if len(res.Target) == 0 {
		return res, Configf("no services configured to monitor")
	}
	return res, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique[S ~[]string](dst S, names ...string) S {
	for _, n := range names {
		if !slices.Contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
