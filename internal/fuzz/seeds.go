package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

// inlineSeeds покрывают конструкции, которых может не быть в testdata.
var inlineSeeds = []string{
	"",
	"define void @f() {\n  ret void\n}\n",
	"declare i32 @printf(ptr, ...)\n",
	"%t = type { i32, %t* }\n",
	"@g = global [2 x i32] [i32 1, i32 2]\n",
	"define i32 @f(i32 %a) {\n  %1 = add i32 %a, 1\n  ret i32 %1\n}\n",
	"define void @f() {\nentry:\n  br label %entry\n}\n",
	"!0 = !{i32 1, !\"x\", !0}\n!llvm.ident = !{!0}\n",
	"define void @f() {\n  %x = call i32 @missing()\n  ret void\n}\n",
	"define i8 @f() {\n  ret i8 c\"\\41\"\n}\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.ll файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ll" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
