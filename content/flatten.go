package content

// FlattenSources replaces each SourcePart in parts with its inner content,
// recursively, preserving order. Idempotent: flattening an already-flat
// slice returns an equal slice.
func FlattenSources(parts []Part) []Part {
	return flatten(parts, PartTypeSource)
}

// FlattenDocuments replaces each DocumentPart in parts with its inner
// content, recursively, preserving order. Idempotent.
func FlattenDocuments(parts []Part) []Part {
	return flatten(parts, PartTypeDocument)
}

func flatten(parts []Part, kind PartType) []Part {
	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		switch kind {
		case PartTypeSource:
			if s, ok := p.(SourcePart); ok {
				out = append(out, flatten(s.Content, kind)...)
				continue
			}
		case PartTypeDocument:
			if d, ok := p.(DocumentPart); ok {
				out = append(out, flatten(d.Content, kind)...)
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
