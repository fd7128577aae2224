package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Пустые строки (empty-lines)
	BlankInfo       Code = 1000
	BlankBOFMax     Code = 1001
	BlankBOFMin     Code = 1002
	BlankEOFMax     Code = 1003
	BlankEOFMin     Code = 1004
	BlankEOIMax     Code = 1005
	BlankEOIMin     Code = 1006
	BlankDefaultMax Code = 1007
	BlankDefaultMin Code = 1008

	// Импорты (no-relative-parent-imports)
	ImportInfo           Code = 2000
	ImportRelativeParent Code = 2001

	// Ввод-вывод и разбор
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	ParseInfo       Code = 5000
	ParseFailed     Code = 5001
	ParseHasErrors  Code = 5002
)

var codeTitles = map[Code]string{
	UnknownCode:          "Unknown error",
	BlankInfo:            "Blank lines information",
	BlankBOFMax:          "Too many blank lines at beginning of file",
	BlankBOFMin:          "Too few blank lines at beginning of file",
	BlankEOFMax:          "Too many blank lines at end of file",
	BlankEOFMin:          "Too few blank lines at end of file",
	BlankEOIMax:          "Too many blank lines after imports",
	BlankEOIMin:          "Too few blank lines after imports",
	BlankDefaultMax:      "Too many consecutive blank lines",
	BlankDefaultMin:      "Too few consecutive blank lines",
	ImportInfo:           "Import information",
	ImportRelativeParent: "Relative parent import",
	IOInfo:               "I/O information",
	IOLoadFileError:      "Failed to load file",
	ParseInfo:            "Parser information",
	ParseFailed:          "Failed to parse file",
	ParseHasErrors:       "File contains syntax errors",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("BLK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
