package transcript

// defaultCascade is appended after the preferred language. English variants
// cover the bulk of captioned videos.
var defaultCascade = []string{"en", "en-US", "en-GB"}

// Cascade builds the ordered language candidate list for a preferred
// language: [preferred, en, en-US, en-GB], deduplicated while preserving
// first occurrence.
func Cascade(preferred string) []string {
	candidates := make([]string, 0, len(defaultCascade)+1)
	seen := make(map[string]struct{}, len(defaultCascade)+1)

	for _, lang := range append([]string{preferred}, defaultCascade...) {
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		candidates = append(candidates, lang)
	}

	return candidates
}

// Refine intersects the cascade with the languages the video actually
// advertises, preserving cascade order. When nothing intersects, the full
// available list is returned in upstream order: any captions beat none.
func Refine(available []string, cascade []string) []string {
	set := make(map[string]struct{}, len(available))
	for _, lang := range available {
		set[lang] = struct{}{}
	}

	var narrowed []string
	for _, lang := range cascade {
		if _, ok := set[lang]; ok {
			narrowed = append(narrowed, lang)
		}
	}

	if len(narrowed) == 0 {
		return available
	}
	return narrowed
}
