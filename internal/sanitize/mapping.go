package sanitize

import (
	"sort"
	"strings"
	"sync"
)

// Mapping is a replacement table from source character sequences to safe
// target sequences. The built-in defaults cover typographic punctuation,
// exotic whitespace and zero-width characters that routinely show up in
// LLM output. A Mapping is safe for concurrent use: Apply takes a read
// lock and Add takes the write lock, so runtime extension never exposes
// a partially updated table.
type Mapping struct {
	mu      sync.RWMutex
	entries map[string]string
	ordered []string // keys sorted longest-first, rebuilt on Add
}

// defaultMappings is the built-in replacement set. Keys that overlap are
// disambiguated by longest-key-first application order.
var defaultMappings = map[string]string{
	// Dash variants (em and en dash themselves are kept as-is)
	"‒": "–", // figure dash
	"―": "—", // horizontal bar

	// Smart quotes to straight quotes
	"“": `"`, // left double quotation mark
	"”": `"`, // right double quotation mark
	"‘": "'", // left single quotation mark
	"’": "'", // right single quotation mark
	"‚": "'", // single low-9 quotation mark
	"„": `"`, // double low-9 quotation mark

	// Spaces and separators
	" ":      " ", // non-breaking space
	" ":      " ", // thin space
	" ":      " ", // hair space
	"​":      "",  // zero-width space
	"‌":      "",  // zero-width non-joiner
	"‍":      "",  // zero-width joiner
	"⁠":      "",  // word joiner
	"\uFEFF": "",  // zero-width no-break space (BOM)

	// Punctuation
	"…": "...", // horizontal ellipsis
	"‣": "▸",   // triangular bullet
}

// NewMapping returns a Mapping preloaded with the default table.
func NewMapping() *Mapping {
	m := &Mapping{entries: make(map[string]string, len(defaultMappings))}
	for k, v := range defaultMappings {
		m.entries[k] = v
	}
	m.rebuild()
	return m
}

// Add inserts a mapping at runtime. Inserting an existing key overrides
// the previous target (last write wins).
func (m *Mapping) Add(source, target string) {
	if source == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = target
	m.rebuild()
}

// Apply substitutes every occurrence of each key with its target.
// Longer keys are applied first so overlapping keys cannot corrupt each
// other's matches.
func (m *Mapping) Apply(text string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, key := range m.ordered {
		if strings.Contains(text, key) {
			text = strings.ReplaceAll(text, key, m.entries[key])
		}
	}
	return text
}

// rebuild recomputes the longest-first key order; callers hold the write lock.
func (m *Mapping) rebuild() {
	m.ordered = m.ordered[:0]
	for k := range m.entries {
		m.ordered = append(m.ordered, k)
	}
	sort.Slice(m.ordered, func(i, j int) bool {
		if len(m.ordered[i]) != len(m.ordered[j]) {
			return len(m.ordered[i]) > len(m.ordered[j])
		}
		return m.ordered[i] < m.ordered[j]
	})
}
