package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// --- Chromosome Name Helpers ---

// trimChromPrefix drops a leading "chr" in any case, so "chr7", "Chr7" and "7" all name chromosome 7.
func trimChromPrefix(name string) string {
	if len(name) >= 3 && strings.EqualFold(name[:3], "chr") {
		return name[3:]
	}
	return name
}

// chromosomeLess orders autosomes numerically, then everything else by name.
func chromosomeLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// --- XML Escaping ---

func escapeXML(s string) string {
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// --- File Helpers ---

// openInput opens path for reading; "-" is standard input.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file '%s': %w", path, err)
	}
	return f, nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
