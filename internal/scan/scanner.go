package scan

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Source is the single chat export a command works on: a .txt file on
// disk, or the .txt member of the .zip WhatsApp produces.
type Source struct {
	Path  string
	Entry string // member inside the zip, empty for plain files
	Mtime int64
	Size  int64
}

// Key identifies the source in the index.
func (s Source) Key() string {
	if s.Entry != "" {
		return s.Path + "!" + s.Entry
	}
	return s.Path
}

// Name is the export's file name, used as the chat title.
func (s Source) Name() string {
	if s.Entry != "" {
		return filepath.Base(s.Entry)
	}
	return filepath.Base(s.Path)
}

// Locate resolves path to exactly one export. A directory or zip must
// hold exactly one .txt file; chats are never merged.
func Locate(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	src := &Source{Path: path, Mtime: info.ModTime().Unix(), Size: info.Size()}

	switch {
	case info.IsDir():
		candidates, err := scanDir(path)
		if err != nil {
			return nil, err
		}
		name, err := pickOne(path, candidates)
		if err != nil {
			return nil, err
		}
		return Locate(filepath.Join(path, name))

	case strings.EqualFold(filepath.Ext(path), ".zip"):
		candidates, err := scanZip(path)
		if err != nil {
			return nil, err
		}
		name, err := pickOne(path, candidates)
		if err != nil {
			return nil, err
		}
		src.Entry = name
		return src, nil

	default:
		return src, nil
	}
}

func scanDir(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isExport(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func scanZip(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if isExport(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func isExport(name string) bool {
	base := filepath.Base(name)
	return strings.EqualFold(filepath.Ext(base), ".txt") && !strings.HasPrefix(base, ".")
}

func pickOne(where string, names []string) (string, error) {
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no .txt chat export in %s", where)
	case 1:
		return names[0], nil
	default:
		sort.Strings(names)
		return "", fmt.Errorf("%s holds %d exports (%s); pass one file", where, len(names), strings.Join(names, ", "))
	}
}

// Read returns the export's text. Invalid UTF-8 is the one input the
// parser cannot accept.
func (s Source) Read() (string, error) {
	var data []byte
	var err error
	if s.Entry == "" {
		data, err = os.ReadFile(s.Path)
	} else {
		data, err = readZipEntry(s.Path, s.Entry)
	}
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8", s.Name())
	}
	return string(data), nil
}

func readZipEntry(path, entry string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	f, err := zr.Open(entry)
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", entry, path, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
