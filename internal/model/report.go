package model

// PackReport summarizes one pack (megaprompt) run.
type PackReport struct {
	GeneratedAt   string         `json:"generatedAt"`
	Root          string         `json:"rootPath"`
	Profile       ProjectProfile `json:"profile"`
	FilesScanned  int            `json:"filesScanned"`
	FilesIncluded int            `json:"filesIncluded"`
	TotalBytes    int64          `json:"totalBytes"`
	TokenEstimate int            `json:"tokenEstimate"`
	Files         []FileRef      `json:"files"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Import is one extracted import statement.
type Import struct {
	File         string `json:"file"`
	Language     string `json:"language"`
	Raw          string `json:"raw"`
	IsInternal   bool   `json:"isInternal"`
	ResolvedPath string `json:"resolvedPath,omitempty"`
}

// DocSection is a heading extracted from a markdown document.
type DocSection struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// DocOutline is the heading outline of one markdown file.
type DocOutline struct {
	File     string       `json:"file"`
	Sections []DocSection `json:"sections"`
}

// FetchedDoc is one document retrieved in fetch mode.
type FetchedDoc struct {
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
}

// DocReport is the output of the doc command.
type DocReport struct {
	GeneratedAt    string         `json:"generatedAt"`
	Root           string         `json:"rootPath,omitempty"`
	Profile        ProjectProfile `json:"profile"`
	Imports        []Import       `json:"imports,omitempty"`
	ImportGraph    string         `json:"importGraph,omitempty"`
	ExternalCounts map[string]int `json:"externalCounts,omitempty"`
	DirTree        string         `json:"dirTree,omitempty"`
	Outlines       []DocOutline   `json:"outlines,omitempty"`
	Fetched        []FetchedDoc   `json:"fetched,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// TestSubject is a source symbol worth covering with a test.
type TestSubject struct {
	File     string `json:"file"`
	Language string `json:"language"`
	Kind     string `json:"kind"` // function, type, route
	Name     string `json:"name"`
	HasTest  bool   `json:"hasTest"`
	TestFile string `json:"testFile,omitempty"`
}

// TestPlanReport is the output of the testplan command.
type TestPlanReport struct {
	GeneratedAt string              `json:"generatedAt"`
	Root        string              `json:"rootPath"`
	Profile     ProjectProfile      `json:"profile"`
	Frameworks  map[string][]string `json:"frameworks,omitempty"`
	Subjects    []TestSubject       `json:"subjects"`
	Warnings    []string            `json:"warnings,omitempty"`
}
