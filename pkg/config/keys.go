package config

import "strings"

// NormalizeKeys expands every key into its lowercase, uppercase and collapsed
// spellings, in input order and without duplicates. The collapsed spelling is
// lowercase with underscores removed, so "TEST_KEY_1" yields "test_key_1",
// "TEST_KEY_1" and "testkey1".
func NormalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys)*3)
	seen := make(map[string]struct{}, len(keys)*3)
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		lower := strings.ToLower(key)
		add(lower)
		add(strings.ToUpper(key))
		add(strings.ReplaceAll(lower, "_", ""))
	}
	return out
}
