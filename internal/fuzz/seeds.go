package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// inlineSeeds cover the zone boundaries without any files on disk.
var inlineSeeds = []string{
	"",
	"\n",
	"\n\n\nlet a = 1;\n",
	"let a = 1;",
	"let a = 1;\n\n\n\n",
	"import a from \"a\";\nlet b = a;\n",
	"import a from \"a\";\n\n\n\n\nlet b = a;\n\n",
	"const s = `\n\n\n`;\n\n\n\nfoo();\n",
	"/*\n\n\n*/\nfoo();\n",
	"function f() {\n\n\n  return 1;\n}\n",
	"let a = 1;\r\n\r\n\r\n\r\nlet b = 2;\r\n",
	"\t\n  \n\t \nx();\n",
	"let = ;\n\n\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range inlineSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		// #nosec G304 -- path comes from the package testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
