package loader

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DocxLoader_CanRead(t *testing.T) {
	cases := []struct {
		path string
		ok   bool
	}{
		{path: "handbook.docx", ok: true},
		{path: "HANDBOOK.DOCX", ok: true},
		{path: "notes.txt", ok: false},
		{path: "report.pdf", ok: false},
		{path: "archive.docx.bak", ok: false},
		{path: "docx", ok: false},
	}

	l := &DocxLoader{}
	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.ok, l.CanRead(c.path))
		})
	}
}

func Test_DocxLoader_MissingFile(t *testing.T) {
	l := &DocxLoader{}
	_, err := l.Load(filepath.Join(t.TempDir(), "missing.docx"))
	assert.Error(t, err)
}
