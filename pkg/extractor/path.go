package extractor

// lookup walks a loosely typed JSON tree following the given path steps.
// A string step indexes a map, an int step indexes a slice. The first
// missing or mismatched step aborts the walk with ok=false, so callers
// never need per-level nil checks.
func lookup(root any, path ...any) (any, bool) {
	current := root

	for _, step := range path {
		switch key := step.(type) {
		case string:
			node, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}

			value, ok := node[key]
			if !ok {
				return nil, false
			}

			current = value
		case int:
			items, ok := current.([]any)
			if !ok || key < 0 || key >= len(items) {
				return nil, false
			}

			current = items[key]
		default:
			return nil, false
		}
	}

	return current, true
}

// lookupString resolves a path to a non-empty string value.
func lookupString(root any, path ...any) (string, bool) {
	value, ok := lookup(root, path...)
	if !ok {
		return "", false
	}

	text, ok := value.(string)
	if !ok || text == "" {
		return "", false
	}

	return text, true
}

// lookupMap resolves a path to an object value.
func lookupMap(root any, path ...any) (map[string]any, bool) {
	value, ok := lookup(root, path...)
	if !ok {
		return nil, false
	}

	node, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}

	return node, true
}

// lookupSlice resolves a path to an array value.
func lookupSlice(root any, path ...any) ([]any, bool) {
	value, ok := lookup(root, path...)
	if !ok {
		return nil, false
	}

	items, ok := value.([]any)
	if !ok {
		return nil, false
	}

	return items, true
}
