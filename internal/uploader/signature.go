package uploader

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// signParams computes the Cloudinary request signature: SHA-1 over the
// parameters serialized as "k=v" pairs, sorted by key and joined with
// "&", with the API secret appended. This is Cloudinary's wire format,
// not a general-purpose MAC.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
