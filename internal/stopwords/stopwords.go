// Package stopwords holds the filler-token sets excluded from vocabulary
// analysis. Two lists are bundled; any whitespace-delimited file can be
// loaded instead.
package stopwords

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed lists/*.txt
var bundled embed.FS

// Set is read-only once built and safe for concurrent lookups.
type Set map[string]struct{}

// Parse reads whitespace-delimited tokens. Membership is case-sensitive,
// tokens are kept exactly as written.
func Parse(r io.Reader) (Set, error) {
	set := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		set[scanner.Text()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Bundled returns one of the lists shipped with the binary.
func Bundled(name string) (Set, error) {
	f, err := bundled.Open("lists/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("unknown stop-word list %q (bundled: %s)", name, strings.Join(Names(), ", "))
	}
	defer f.Close()
	return Parse(f)
}

// Names lists the bundled stop-word lists.
func Names() []string {
	entries, _ := bundled.ReadDir("lists")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Load resolves a bundled list name first, then a file path.
func Load(nameOrPath string) (Set, error) {
	if nameOrPath == "" {
		nameOrPath = "hinglish"
	}
	for _, n := range Names() {
		if n == nameOrPath {
			return Bundled(n)
		}
	}

	f, err := os.Open(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("open stop words: %w", err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read stop words %s: %w", nameOrPath, err)
	}
	return set, nil
}

func (s Set) Contains(token string) bool {
	_, ok := s[token]
	return ok
}
