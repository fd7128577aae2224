package driver

import (
	"bytes"
	"errors"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"emptylines/internal/source"
)

// ErrChangedOnDisk is returned when a file no longer matches the content the
// fixes were computed for.
var ErrChangedOnDisk = errors.New("file changed since it was linted")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// restoreEncoding maps fixed (LF-normalised, BOM-free) content back onto the
// conventions of raw, the bytes the file held before normalisation: the BOM
// comes back and every line keeps the ending it had. Lines are matched with a
// line diff of before and fixed; replaced lines take the ending of the line
// they replace.
func restoreEncoding(raw, before, fixed []byte) ([]byte, error) {
	normalized, flags := source.Normalize(raw)
	if !bytes.Equal(normalized, before) {
		return nil, ErrChangedOnDisk
	}
	out := fixed
	if flags&source.FileNormalizedCRLF != 0 {
		body, _ := bytes.CutPrefix(raw, utf8BOM)
		out = restoreCRLF(body, before, fixed)
	}
	if flags&source.FileHadBOM != 0 {
		out = append(append(make([]byte, 0, len(out)+len(utf8BOM)), utf8BOM...), out...)
	}
	return out, nil
}

func restoreCRLF(raw, before, fixed []byte) []byte {
	rawLines := strings.SplitAfter(string(raw), "\n")
	crlfAt := make([]bool, len(rawLines))
	crlfCount := 0
	for i, line := range rawLines {
		if strings.HasSuffix(line, "\r\n") {
			crlfAt[i] = true
			crlfCount++
		}
	}
	// для вставленных строк берём преобладающий стиль файла
	dominant := crlfCount*2 >= len(rawLines)-1

	a := strings.SplitAfter(string(before), "\n")
	b := strings.SplitAfter(string(fixed), "\n")
	endings := make([]bool, len(b))
	for j := range endings {
		endings[j] = dominant
	}
	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e', 'r':
			for j := op.J1; j < op.J2; j++ {
				i := min(op.I1+(j-op.J1), op.I2-1)
				endings[j] = crlfAt[i]
			}
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(fixed) + len(b))
	for j, line := range b {
		if endings[j] && strings.HasSuffix(line, "\n") {
			buf.WriteString(line[:len(line)-1])
			buf.WriteString("\r\n")
			continue
		}
		buf.WriteString(line)
	}
	return buf.Bytes()
}
