// Package i18nscan finds translation keys used in front-end sources and
// checks them against a locale file.
package i18nscan

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// DefaultExtensions are the source file types scanned when none are given.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".vue"}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".next":        true,
}

// keyPatterns capture the key as the first group. \bt also covers i18n.t( and $t(.
var keyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bt\(\s*"([^"\n]+)"`),
	regexp.MustCompile(`\bt\(\s*'([^'\n]+)'`),
	regexp.MustCompile("\\bt\\(\\s*`([^`$\\n]+)`"),
	regexp.MustCompile(`i18nKey=\{?\s*"([^"\n]+)"`),
	regexp.MustCompile(`i18nKey=\{?\s*'([^'\n]+)'`),
}

// ExtractKeys returns the keys referenced in src in order of appearance, duplicates included.
func ExtractKeys(src []byte) []string {
	type hit struct {
		pos int
		key string
	}
	var hits []hit
	for _, re := range keyPatterns {
		for _, m := range re.FindAllSubmatchIndex(src, -1) {
			key := strings.TrimSpace(string(src[m[2]:m[3]]))
			if key != "" {
				hits = append(hits, hit{pos: m[0], key: key})
			}
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.pos - b.pos })
	keys := make([]string, len(hits))
	for i, h := range hits {
		keys[i] = h.key
	}
	return keys
}

// Scan walks root and returns the sorted, de-duplicated keys found in files
// whose extension is in exts. Dependency and build directories are skipped.
func Scan(root string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		wanted[e] = true
	}

	seen := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		for _, k := range ExtractKeys(src) {
			seen[k] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// LocaleKeys flattens a locale JSON document into dotted keys. Both flat
// ({"a.b": "x"}) and nested ({"a": {"b": "x"}}) layouts are accepted.
func LocaleKeys(localeJSON []byte) (map[string]struct{}, error) {
	var doc map[string]any
	if err := json.Unmarshal(localeJSON, &doc); err != nil {
		return nil, fmt.Errorf("parse locale: %w", err)
	}
	out := make(map[string]struct{})
	flatten("", doc, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]struct{}) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flatten(key, child, out)
			continue
		}
		out[key] = struct{}{}
	}
}

// Missing returns the keys, in input order, that the locale does not define.
func Missing(keys []string, localeJSON []byte) ([]string, error) {
	defined, err := LocaleKeys(localeJSON)
	if err != nil {
		return nil, err
	}
	missing := []string{}
	for _, k := range keys {
		if _, ok := defined[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing, nil
}
