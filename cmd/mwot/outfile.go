package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// formatOutfile expands an output file pattern for the source file at
// path. Fields are written {name}; {{ and }} stand for literal braces.
// Anything else inside braces is rejected.
func formatOutfile(pattern, path string) (string, error) {
	fields := outfileFields(path)
	bad := func() (string, error) {
		return "", fmt.Errorf("bad outfile pattern: %q", pattern)
	}

	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '{' && strings.HasPrefix(pattern[i:], "{{"):
			sb.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(pattern[i:], "}}"):
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return bad()
			}
			v, ok := fields[pattern[i+1:i+end]]
			if !ok {
				return bad()
			}
			sb.WriteString(v)
			i += end
		case c == '}':
			return bad()
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

// outfileFields splits path into the fields usable in a pattern. A suffix
// needs a dot that is neither the first nor the last character of the name.
func outfileFields(path string) map[string]string {
	clean := filepath.Clean(path)
	name := filepath.Base(clean)
	suffix := ""
	if i := strings.LastIndexByte(name, '.'); i > 0 && i < len(name)-1 {
		suffix = name[i:]
	}
	return map[string]string{
		"name":   name,
		"stem":   strings.TrimSuffix(name, suffix),
		"suffix": suffix,
		"path":   clean,
		"dir":    filepath.Dir(clean),
	}
}
