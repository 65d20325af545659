package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipOf(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractTXT(t *testing.T) {
	text, err := New(nil).Extract("Jane.TXT", []byte("Jane  Doe\r\nGo developer\n"))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestExtractDOCX(t *testing.T) {
	body := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>R&amp;D Engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := zipOf(t, map[string]string{"word/document.xml": body})

	text, err := New(nil).Extract("cv.docx", data)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nR&D Engineer", text)
}

func TestExtractDOCXNumericEntities(t *testing.T) {
	body := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane&#8217;s CV &#x2013; 2019</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := zipOf(t, map[string]string{"word/document.xml": body})

	text, err := New(nil).Extract("cv.docx", data)

	require.NoError(t, err)
	assert.Equal(t, "Jane\u2019s CV \u2013 2019", text)
}

func TestExtractDOCXWithoutBody(t *testing.T) {
	data := zipOf(t, map[string]string{"other.xml": "<x/>"})

	_, err := New(nil).Extract("cv.docx", data)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "cv.docx", extractErr.File)
}

func TestExtractHTML(t *testing.T) {
	page := `<html><head><style>p{}</style><script>var x;</script></head><body>
<h1>Jane Doe</h1><ul><li>Go</li><li><p>SQL</p></li></ul><p>Summary here</p></body></html>`

	text, err := New(nil).Extract("cv.html", []byte(page))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo\nSQL\nSummary here", text)
}

func TestExtractErrors(t *testing.T) {
	e := New(nil)

	_, err := e.Extract("cv.rtf", []byte("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = e.Extract("cv.txt", []byte("   \n "))
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = e.Extract("cv.pdf", []byte("not a pdf"))
	var extractErr *Error
	assert.ErrorAs(t, err, &extractErr)

	_, err = e.Extract("cv.txt", []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	archive := zipOf(t, map[string]string{
		"a.txt":     "Alice",
		"b.pdf":     "%PDF",
		"notes.md":  "skip me",
		"dir/c.txt": "Carol",
	})
	files := []File{
		{Name: "bundle.ZIP", Data: archive},
		{Name: "broken.zip", Data: []byte("nope")},
		{Name: "d.docx", Data: []byte("x")},
	}

	out, errs := New(nil).Expand(files)

	names := make([]string, 0, len(out))
	for _, f := range out {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.pdf", "dir/c.txt", "d.docx"}, names)
	require.Len(t, errs, 1)
	var extractErr *Error
	require.ErrorAs(t, errs[0], &extractErr)
	assert.Equal(t, "broken.zip", extractErr.File)
}

func TestSupported(t *testing.T) {
	e := New(nil)
	assert.True(t, e.Supported("X.PDF"))
	assert.True(t, e.Supported("x.htm"))
	assert.False(t, e.Supported("x.doc"))
}
