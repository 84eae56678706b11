// Package headers installs the native runtime headers that node-gyp needs
// to compile native modules, as pinned by the workspace's .yarnrc files.
package headers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Spec names the headers to fetch: a distribution URL and a target version.
type Spec struct {
	DistURL string `json:"disturl"`
	Target  string `json:"target"`
}

// ReadSpec reads an rc file. A missing file, or one lacking either key,
// yields a nil Spec and no error.
func ReadSpec(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	spec, err := parseSpec(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return spec, nil
}

// ParseSpec scans rc content for `disturl "..."` and `target "..."` lines.
// The last occurrence of each key wins.
func ParseSpec(r io.Reader) *Spec {
	spec, _ := parseSpec(r)
	return spec
}

func parseSpec(r io.Reader) (*Spec, error) {
	var disturl, target string
	var haveURL, haveTarget bool

	sc := bufio.NewScanner(r)
	sc.Split(scanLines)
	for sc.Scan() {
		line := sc.Text()
		if v, ok := quotedValue(line, "disturl"); ok {
			disturl, haveURL = v, true
		}
		if v, ok := quotedValue(line, "target"); ok {
			target, haveTarget = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !haveURL || !haveTarget {
		return nil, nil
	}
	return &Spec{DistURL: disturl, Target: target}, nil
}

// quotedValue matches `<ws>key<ws>"value"<ws>` and returns value. The key
// may appear after other text on the line, matching yarn's own loose reading.
func quotedValue(line, key string) (string, bool) {
	idx := strings.Index(line, key)
	for idx >= 0 {
		rest := strings.TrimLeft(line[idx+len(key):], " \t")
		rest = strings.TrimRight(rest, " \t\r\n")
		if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
			return rest[1 : len(rest)-1], true
		}
		next := strings.Index(line[idx+1:], key)
		if next < 0 {
			break
		}
		idx += next + 1
	}
	return "", false
}

// scanLines splits on LF, CRLF or a lone CR.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// Need more data to tell CR from CRLF.
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
