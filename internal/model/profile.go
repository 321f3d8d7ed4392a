package model

// ProjectProfile is the output of project detection. It is created once per
// invocation and never mutated afterwards.
type ProjectProfile struct {
	Root          Path     `json:"rootPath"`
	Languages     []string `json:"languages"`
	Markers       []string `json:"markers,omitempty"`
	IsCodeProject bool     `json:"isCodeProject"`
	Evidence      []string `json:"evidence,omitempty"`
}

// HasLanguage reports whether the profile detected the given language tag.
func (p ProjectProfile) HasLanguage(lang string) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}

	return false
}

// IncludeRules defines what the project scanner includes and excludes.
// Derived deterministically from a profile's language set; immutable.
type IncludeRules struct {
	AllowedExts       map[string]bool
	ForceIncludeNames map[string]bool
	ForceIncludeGlobs []string
	PruneDirs         map[string]bool
	ExcludeNames      map[string]bool
	ExcludeExts       map[string]bool
}
