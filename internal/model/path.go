package model

// Path represents a file system path.
type Path string

// FileRef is a stable reference to a scanned file using a POSIX-style path
// relative to the scan root.
type FileRef struct {
	RelPath   string `json:"relPath"`
	SizeBytes int64  `json:"sizeBytes"`
	IsTest    bool   `json:"isTest"`
}
