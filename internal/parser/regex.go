package parser

import (
	"fmt"
	"regexp"
	"sync"
)

// patternCache holds compiled field patterns shared by all parsers.
var patternCache sync.Map // map[string]*regexp.Regexp

// getOrCompile returns a cached compiled regex or compiles and caches a new one.
func getOrCompile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}

	patternCache.Store(pattern, re)
	return re, nil
}

// applyPattern narrows value with pattern. A pattern with capture groups
// yields the first non-empty group; one without yields the whole match.
func applyPattern(pattern, value string) (string, error) {
	if pattern == "" || value == "" {
		return value, nil
	}
	re, err := getOrCompile(pattern)
	if err != nil {
		return "", err
	}

	if re.NumSubexp() == 0 {
		return re.FindString(value), nil
	}
	match := re.FindStringSubmatch(value)
	for _, group := range match[min(1, len(match)):] {
		if group != "" {
			return group, nil
		}
	}
	return "", nil
}

// Extract applies pattern to s and returns the result, ignoring invalid patterns.
func Extract(pattern, s string) string {
	v, err := applyPattern(pattern, s)
	if err != nil {
		return ""
	}
	return v
}
