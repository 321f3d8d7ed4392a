package domain

import (
	"path"
	"strings"
)

// testDirNames are directory names treated as test containers.
var testDirNames = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
}

// IsTestFile reports whether a POSIX-style relative path matches common
// test naming conventions, either by file name or by an ancestor directory.
func IsTestFile(relPath string) bool {
	base := strings.ToLower(path.Base(relPath))

	if strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(base, "_test.") ||
		strings.Contains(base, "-test.") ||
		strings.Contains(base, "_spec.") ||
		strings.HasPrefix(base, "test_") {
		return true
	}

	for _, part := range strings.Split(relPath, "/") {
		if testDirNames[strings.ToLower(strings.TrimSpace(part))] {
			return true
		}
	}

	return false
}
