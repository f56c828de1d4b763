package tree

// Reserved attribute keys. Everything else in an Attrs map is opaque to
// the engine and carried through to the host surface untouched.
const (
	// AttrKey is the explicit identity used for array reconciliation.
	AttrKey = "key"
	// AttrID is the stable external lookup id for a tag's tracked range.
	AttrID = "id"
	// AttrOnChange is a func(string) fired when the span's live text
	// diverges from its last rendered content.
	AttrOnChange = "on_change"
	// AttrKeymapPrefix prefixes per-input-mode handler maps. The full key
	// is AttrKeymapPrefix + mode, the value a map from literal key
	// sequence to handler.
	AttrKeymapPrefix = "keymap:"
)

// Attrs holds a tag's attributes.
type Attrs map[string]any

// OnChange returns the node's change callback, or nil.
func (a Attrs) OnChange() func(string) {
	if a == nil {
		return nil
	}
	if fn, ok := a[AttrOnChange].(func(string)); ok {
		return fn
	}
	return nil
}

// Keymap returns the handler map registered for an input mode, or nil.
// Values are left as any; the dispatch layer owns the handler type.
func (a Attrs) Keymap(mode string) map[string]any {
	if a == nil {
		return nil
	}
	if m, ok := a[AttrKeymapPrefix+mode].(map[string]any); ok {
		return m
	}
	return nil
}

// Modes returns the input modes this attribute set has keymaps for.
func (a Attrs) Modes() []string {
	var modes []string
	for k := range a {
		if len(k) > len(AttrKeymapPrefix) && k[:len(AttrKeymapPrefix)] == AttrKeymapPrefix {
			modes = append(modes, k[len(AttrKeymapPrefix):])
		}
	}
	return modes
}

// Clone returns a shallow copy of the attribute map.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
