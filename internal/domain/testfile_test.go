package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTestFile(t *testing.T) {
	cases := []struct {
		relPath string
		want    bool
	}{
		{"src/app.test.ts", true},
		{"src/app.spec.ts", true},
		{"pkg/util_test.go", true},
		{"lib/widget-test.js", true},
		{"tests/helpers.py", true},
		{"src/__tests__/app.ts", true},
		{"spec/models/user.rb", true},
		{"test_parser.py", true},
		{"src/app.ts", false},
		{"contest/entry.go", false},
		{"src/latest.ts", false},
		{"testdata/fixture.json", false},
	}

	for _, tc := range cases {
		t.Run(tc.relPath, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTestFile(tc.relPath))
		})
	}
}
