package exchange

// TranslationMap holds replacement text keyed by block identifier.
// Blocks absent from the map keep their original text; lookups never
// fail, they report absence.
type TranslationMap map[string]string

// Lookup returns the replacement text for blockID and whether one
// exists.
func (m TranslationMap) Lookup(blockID string) (string, bool) {
	text, ok := m[blockID]
	return text, ok
}

// Merge copies every entry of other into m, overwriting duplicates.
func (m TranslationMap) Merge(other TranslationMap) {
	for id, text := range other {
		m[id] = text
	}
}
