package fcs

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Keywords is the parsed TEXT segment. Keys are stored upper-cased.
type Keywords map[string]string

// Get returns the value for key, matching case-insensitively.
func (k Keywords) Get(key string) (string, bool) {
	v, ok := k[strings.ToUpper(key)]
	return v, ok
}

// Int parses the value for key as an integer.
func (k Keywords) Int(key string) (int64, error) {
	raw, ok := k.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing keyword %s", ErrMalformed, key)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: keyword %s=%q: %v", ErrMalformed, key, raw, err)
	}
	return v, nil
}

// parseText splits a TEXT segment on its delimiter (the first byte). A doubled
// delimiter stands for one literal delimiter character.
func parseText(seg []byte) (Keywords, error) {
	if len(seg) < 2 {
		return nil, fmt.Errorf("%w: TEXT segment too short", ErrMalformed)
	}
	delim := seg[0]
	var tokens []string
	var cur []byte
	for i := 1; i < len(seg); i++ {
		c := seg[i]
		if c != delim {
			cur = append(cur, c)
			continue
		}
		if i+1 < len(seg) && seg[i+1] == delim {
			cur = append(cur, delim)
			i++
			continue
		}
		tokens = append(tokens, string(cur))
		cur = cur[:0]
	}
	if len(bytes.TrimSpace(cur)) > 0 {
		tokens = append(tokens, string(cur))
	}
	if len(tokens)%2 != 0 {
		tokens = tokens[:len(tokens)-1]
	}
	kw := make(Keywords, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		key := strings.ToUpper(strings.TrimSpace(tokens[i]))
		if key == "" {
			continue
		}
		kw[key] = tokens[i+1]
	}
	return kw, nil
}

type keyword struct {
	key   string
	value string
}

func encodeText(delim byte, pairs []keyword) []byte {
	var buf bytes.Buffer
	d := string(delim)
	escape := func(s string) string { return strings.ReplaceAll(s, d, d+d) }
	buf.WriteByte(delim)
	for _, kv := range pairs {
		buf.WriteString(escape(kv.key))
		buf.WriteByte(delim)
		buf.WriteString(escape(kv.value))
		buf.WriteByte(delim)
	}
	return buf.Bytes()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
