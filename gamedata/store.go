package gamedata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// MissingTableError - a table or its strings file is absent. Nothing can be
// derived without it, so callers treat it as fatal.
type MissingTableError struct {
	Name string
	Path string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing table %s (%s)", e.Name, e.Path)
}

// Layout - where the exported game data lives
type Layout struct {
	Root   string // e.g. StellaSoraData
	Region string // e.g. EN
	Locale string // e.g. en_US
}

func (l Layout) dataPath(name string) string {
	return filepath.Join(l.Root, l.Region, "bin", name+".json")
}

func (l Layout) stringsPath(region, locale, name string) string {
	return filepath.Join(l.Root, region, "language", locale, name+".json")
}

// Store loads tables once per run and hands out the cached copies.
// Returned tables are shared and must be treated as read-only.
type Store struct {
	layout Layout

	mu        sync.Mutex
	raw       map[string]Table
	localized map[string]Table
	strs      map[string]map[string]string
}

func NewStore(layout Layout) *Store {
	return &Store{
		layout:    layout,
		raw:       make(map[string]Table),
		localized: make(map[string]Table),
		strs:      make(map[string]map[string]string),
	}
}

// Layout returns the data layout the store reads from.
func (s *Store) Layout() Layout {
	return s.layout
}

// Raw returns the table without localization.
func (s *Store) Raw(name string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawLocked(name)
}

func (s *Store) rawLocked(name string) (Table, error) {
	if t, ok := s.raw[name]; ok {
		return t, nil
	}
	var t Table
	if err := readJSON(name, s.layout.dataPath(name), &t); err != nil {
		return nil, err
	}
	s.raw[name] = t
	log.Debug().Str("table", name).Int("rows", len(t)).Msg("[Store] loaded table")
	return t, nil
}

// Load returns the table with every string value that names a localization
// key replaced by its translated text.
func (s *Store) Load(name string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.localized[name]; ok {
		return t, nil
	}
	var data Table
	if err := readJSON(name, s.layout.dataPath(name), &data); err != nil {
		return nil, err
	}
	i18n, err := s.stringsLocked(s.layout.Region, s.layout.Locale, name)
	if err != nil {
		return nil, err
	}
	for _, rec := range data {
		localize(rec, i18n)
	}
	s.localized[name] = data
	return data, nil
}

// Strings returns the strings table of a table for any region and locale.
func (s *Store) Strings(region, locale, name string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stringsLocked(region, locale, name)
}

func (s *Store) stringsLocked(region, locale, name string) (map[string]string, error) {
	key := region + "/" + locale + "/" + name
	if m, ok := s.strs[key]; ok {
		return m, nil
	}
	var m map[string]string
	if err := readJSON(name, s.layout.stringsPath(region, locale, name), &m); err != nil {
		return nil, err
	}
	s.strs[key] = m
	return m, nil
}

func localize(rec map[string]any, i18n map[string]string) {
	for k, v := range rec {
		switch val := v.(type) {
		case string:
			if text, ok := i18n[val]; ok {
				rec[k] = PostProcess(text)
			}
		case map[string]any:
			localize(val, i18n)
		case Record:
			localize(val, i18n)
		}
	}
}

// PostProcess normalizes localized text for wiki output.
func PostProcess(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\v", " ")
	s = strings.ReplaceAll(s, "\n", "<br/>")
	return s
}

func readJSON(name, path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingTableError{Name: name, Path: path}
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
