package normalize

import "strings"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDenyList replaces the default deny-list with the given strings.
// Matching is case-insensitive.
func WithDenyList(words []string) Option {
	return func(n *Normalizer) {
		n.denyList = make(map[string]struct{}, len(words))
		for _, w := range words {
			n.denyList[strings.ToLower(w)] = struct{}{}
		}
	}
}
