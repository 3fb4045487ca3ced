package sexy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_RepositoryDocuments(t *testing.T) {
	files, err := filepath.Glob("../test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			testCases, err := ExtractTestCases(string(content))
			be.Err(t, err, nil)
			be.True(t, len(testCases) > 0)

			for _, tc := range testCases {
				be.True(t, tc.Name != "")
				be.True(t, tc.Input != "")
				be.True(t, tc.InputType == InputTypePlumeExpr || tc.InputType == InputTypePlumeProgram)
				be.True(t, len(tc.Assertions) >= 1)

				// Every input fence must itself be a well-formed S-expression.
				_, err := Parse(tc.Input)
				be.Err(t, err, nil)

				for _, assertion := range tc.Assertions {
					if assertion.Type == AssertionTypeTypes {
						be.True(t, assertion.ParsedSexy == nil)
					} else {
						be.True(t, assertion.ParsedSexy != nil)
					}
				}
			}
		})
	}
}
