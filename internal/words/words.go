// internal/words/words.go
//
// Dictionary library for the solver and the play mode.
//
// Responsibilities:
//   - Load per-language, per-length word lists from an fs.FS
//     (os.DirFS(WORDS_DIR) or the embedded assets library).
//   - Keep the "popular" subset used for picking answers and flagging
//     suggestions.
//   - Supply lookups like IsAllowed, IsPopular, RandomAnswer and Stats.
//
// Layout:
//   <lang>/<length>.txt                full dictionary (required)
//   <lang>/<length>_clean_popular.txt  popular subset (optional)
//
// Constraints:
//   • Words are trimmed, lowercased, a–z only and exactly <length> letters.
//   • Duplicates are dropped; file order is kept.
//   • Each (lang, length) pair is read once and cached.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "english"

// ErrNotFound is returned when no dictionary exists for (lang, length).
var ErrNotFound = errors.New("dictionary not found")

// Dictionary is the word list for one language and word length.
type Dictionary struct {
	Language string
	Length   int

	words      []string            // full list, file order
	popular    []string            // popular subset, file order
	allowedSet map[string]struct{} // words ∪ popular
	popularSet map[string]struct{}
}

// Words returns the full word list in file order.
func (d *Dictionary) Words() []string { return d.words }

// Popular returns the popular subset (possibly empty).
func (d *Dictionary) Popular() []string { return d.popular }

// Answers returns the list answers are drawn from: the popular subset, or
// the full list when no popular list exists.
func (d *Dictionary) Answers() []string {
	if len(d.popular) > 0 {
		return d.popular
	}
	return d.words
}

// IsAllowed reports whether w is a valid guess.
func (d *Dictionary) IsAllowed(w string) bool {
	_, ok := d.allowedSet[strings.ToLower(strings.TrimSpace(w))]
	return ok
}

// IsPopular reports whether w is in the popular subset.
func (d *Dictionary) IsPopular(w string) bool {
	_, ok := d.popularSet[strings.ToLower(strings.TrimSpace(w))]
	return ok
}

// RandomAnswer returns a cryptographically random answer.
func (d *Dictionary) RandomAnswer() (string, error) {
	list := d.Answers()
	if len(list) == 0 {
		return "", fmt.Errorf("%w: %s/%d is empty", ErrNotFound, d.Language, d.Length)
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return "", err
	}
	return list[nBig.Int64()], nil
}

// Stats returns counts of loaded words: (full, popular).
func (d *Dictionary) Stats() (wordsCount int, popularCount int) {
	return len(d.words), len(d.popular)
}

// Library loads dictionaries lazily from a file tree.
type Library struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[string]*Dictionary
}

// NewLibrary wraps a dictionary tree.
func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys, cache: make(map[string]*Dictionary)}
}

// Dictionary returns the dictionary for (lang, length), loading it on first
// use. An empty lang means DefaultLanguage.
func (l *Library) Dictionary(lang string, length int) (*Dictionary, error) {
	lang = normalizeLanguage(lang)
	if lang == "" || length <= 0 {
		return nil, fmt.Errorf("%w: %q/%d", ErrNotFound, lang, length)
	}
	key := lang + "/" + strconv.Itoa(length)

	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := l.cache[key]; ok {
		return d, nil
	}

	full, err := readList(l.fsys, path.Join(lang, strconv.Itoa(length)+".txt"), length)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%d", ErrNotFound, lang, length)
		}
		return nil, err
	}
	if len(full) == 0 {
		return nil, fmt.Errorf("%w: %s/%d is empty", ErrNotFound, lang, length)
	}

	// A missing popular list is fine: answers fall back to the full list.
	pop, err := readList(l.fsys, path.Join(lang, strconv.Itoa(length)+"_clean_popular.txt"), length)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	d := &Dictionary{
		Language:   lang,
		Length:     length,
		words:      full,
		popular:    pop,
		popularSet: toSet(pop),
	}
	// Popular words are always valid guesses.
	d.allowedSet = toSet(full)
	for _, w := range pop {
		d.allowedSet[w] = struct{}{}
	}
	l.cache[key] = d
	return d, nil
}

// Entry describes one available dictionary.
type Entry struct {
	Language string `json:"lang"`
	Length   int    `json:"length"`
	Words    int    `json:"words"`
	Popular  int    `json:"popular"`
}

// Catalog lists every dictionary present in the tree, sorted by language
// then length. Unreadable entries are skipped.
func (l *Library) Catalog() ([]Entry, error) {
	langs, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, ld := range langs {
		if !ld.IsDir() {
			continue
		}
		files, err := fs.ReadDir(l.fsys, ld.Name())
		if err != nil {
			continue
		}
		for _, f := range files {
			n, err := strconv.Atoi(strings.TrimSuffix(f.Name(), ".txt"))
			if err != nil || f.IsDir() || !strings.HasSuffix(f.Name(), ".txt") {
				continue
			}
			d, err := l.Dictionary(ld.Name(), n)
			if err != nil {
				continue
			}
			w, p := d.Stats()
			out = append(out, Entry{Language: d.Language, Length: d.Length, Words: w, Popular: p})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].Length < out[j].Length
	})
	return out, nil
}

// readList loads one word per line, keeping valid words of the given length.
func readList(fsys fs.FS, name string, length int) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) != length || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, sc.Err()
}

// normalizeLanguage lowercases and rejects path-like names.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLanguage
	}
	if strings.ContainsAny(lang, `/\.`) {
		return ""
	}
	return lang
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
