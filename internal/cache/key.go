package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"pictiato/internal/domain"
)

// Key returns the cache key for one derivative variant of the asset served at
// path. The variant parameters are normalized and sorted before hashing, so
// query parameter order in a request can never split one variant across keys.
func Key(path string, size domain.SizeClass, crop bool) string {
	params := []string{"crop=" + strconv.FormatBool(crop)}
	if size != "" {
		params = append(params, "size="+string(size))
	}
	sort.Strings(params)
	return digestKey(path, params)
}

// BaseKey is the key for the bare fetch path with no query parameters.
func BaseKey(path string) string {
	return digestKey(path, nil)
}

// PurgeKeys enumerates every key an asset's derivatives can occupy: the bare
// base key plus the full size × crop product. Deletion purges this fixed set
// without discovering which keys actually exist.
func PurgeKeys(path string) []string {
	keys := make([]string, 0, 2*(len(domain.SizeClassList)+1)+1)
	keys = append(keys, BaseKey(path))

	sizes := append([]domain.SizeClass{""}, domain.SizeClassList...)
	for _, size := range sizes {
		for _, crop := range []bool{false, true} {
			keys = append(keys, Key(path, size, crop))
		}
	}
	return keys
}

func digestKey(path string, params []string) string {
	s := path
	if len(params) > 0 {
		s += "?" + strings.Join(params, "&")
	}
	sum := sha1.Sum([]byte(s))
	return path + ":" + hex.EncodeToString(sum[:])
}
