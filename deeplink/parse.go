package deeplink

import (
	"fmt"
	"net/url"
)

// Parse extracts the recognized redirect parameters from an incoming URL.
//
// The query component is parsed first, then the fragment is parsed as a second
// key-value set. Fragment values override query values for the same key, since
// some provider flows encode the interesting parameters after the '#'.
//
// Parse is pure: the same URL always yields the same Params, so it is safe to
// invoke from more than one screen in a single navigation chain.
func Parse(rawURL string) (Params, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Params{}, fmt.Errorf("deeplink.Parse %q: %w", rawURL, err)
	}

	merged := u.Query()

	if u.Fragment != "" {
		fragment, err := url.ParseQuery(u.Fragment)
		if err == nil {
			for key, values := range fragment {
				if len(values) > 0 {
					merged.Set(key, values[0])
				}
			}
		}
	}

	return FromValues(merged), nil
}
