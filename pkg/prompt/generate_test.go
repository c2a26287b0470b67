package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptmaker/pkg/filter"
	"promptmaker/pkg/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTree struct {
	output string
	calls  int
	roots  []string
}

func (f *fakeTree) RenderTree(_ context.Context, root string) string {
	f.calls++
	f.roots = append(f.roots, root)
	return f.output
}

type fakeSymbols struct {
	output string
	paths  []string
}

func (f *fakeSymbols) Summarize(_ context.Context, path string) string {
	f.paths = append(f.paths, path)
	return f.output
}

type countingReporter struct {
	added    int
	finished bool
}

func (c *countingReporter) Add(n int) error { c.added += n; return nil }
func (c *countingReporter) Finish() error  { c.finished = true; return nil }

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func resolved(t *testing.T, root string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return r
}

func defaultOptions(root string) Options {
	return Options{
		ProjectDir:       root,
		BaseInstructions: "BASE",
		TaskInstructions: "TASK",
		IncludeTree:      true,
		MaxFileSize:      10000,
	}
}

func generate(t *testing.T, a *Assembler, opts Options) string {
	t.Helper()
	doc, err := a.Generate(context.Background(), opts)
	require.NoError(t, err)
	return doc
}

func TestGenerateExactDocument(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("print('hi')\n"))
	writeFile(t, root, "docs/guide.md", []byte("# Guide"))

	tree := &fakeTree{output: "TREE\n"}
	doc := generate(t, NewAssembler(tree, &fakeSymbols{}, nil), defaultOptions(root))

	want := "Base Instructions:\nBASE\n\n" +
		"Background Information:\n" +
		"Project structure:\n```\nTREE\n\n```\n\n" +
		"File: a.py\n```python3\nprint('hi')\n\n```\n\n" +
		"File: docs/guide.md\n```markdown\n# Guide\n```\n\n" +
		"\nTask Instructions:\nTASK\n"
	assert.Equal(t, want, doc)
	assert.Equal(t, []string{root}, tree.roots)
}

func TestGenerateHiddenPathsExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte(strings.Repeat("x", 49)+"\n"))
	writeFile(t, root, ".secret/token", []byte("s3cr3t"))
	writeFile(t, root, "src/.env", []byte("KEY=1"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	opts.Patterns = filter.PatternSet{Include: []string{"*"}}
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "File: a.py\n```python3\n")
	assert.NotContains(t, doc, ".secret")
	assert.NotContains(t, doc, "s3cr3t")
	assert.NotContains(t, doc, ".env")
}

func TestGenerateIncludeOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("print(1)\n"))
	writeFile(t, root, "readme.md", []byte("hello\n"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	opts.Patterns = filter.PatternSet{Include: []string{"*.md"}, Ignore: []string{"*.md"}}
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "File: readme.md\n```markdown\nhello\n")
	assert.NotContains(t, doc, "a.py")
}

func TestGenerateIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))
	writeFile(t, root, "build/out.log", []byte("log\n"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	opts.Patterns = filter.PatternSet{Ignore: []string{"*.log"}}
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "File: main.go\n```go\n")
	assert.NotContains(t, doc, "out.log")
}

func TestGenerateOversizedFileWithoutSummary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.py", []byte(strings.Repeat("a", 20000)))

	symbols := &fakeSymbols{}
	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, symbols, nil), opts)

	want := "Base Instructions:\nBASE\n\nBackground Information:\n" +
		"File: big.py\n" +
		"\nTask Instructions:\nTASK\n"
	assert.Equal(t, want, doc)
	assert.Equal(t, []string{filepath.Join(resolved(t, root), "big.py")}, symbols.paths)
}

func TestGenerateOversizedFileWithSummary(t *testing.T) {
	root := t.TempDir()
	content := "def secret_body():\n    return 42\n" + strings.Repeat("#", 20000)
	writeFile(t, root, "big.py", []byte(content))

	symbols := &fakeSymbols{output: "secret_body function 1 big.py def secret_body():\n"}
	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, symbols, nil), opts)

	header := fmt.Sprintf("File: big.py\nFile size: %d bytes. Showing ctags summary:\n", len(content))
	assert.Contains(t, doc, header+"```\n"+symbols.output+"\n```\n\n")
	assert.NotContains(t, doc, "return 42")
	assert.NotContains(t, doc, "```python3")
}

func TestGenerateSizeBoundaryIsInclusive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "edge.txt", []byte(strings.Repeat("e", 100)))

	symbols := &fakeSymbols{output: "unused"}
	opts := defaultOptions(root)
	opts.IncludeTree = false
	opts.MaxFileSize = 100
	doc := generate(t, NewAssembler(nil, symbols, nil), opts)

	assert.Contains(t, doc, "```plaintext\n"+strings.Repeat("e", 100)+"\n```")
	assert.Empty(t, symbols.paths)
}

func TestGenerateNoTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("x = 1\n"))

	tree := &fakeTree{output: "TREE"}
	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(tree, nil, nil), opts)

	assert.Zero(t, tree.calls)
	assert.NotContains(t, doc, "Project structure")
}

func TestGenerateEmptyTreeSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("x = 1\n"))

	tree := &fakeTree{}
	doc := generate(t, NewAssembler(tree, nil, nil), defaultOptions(root))

	assert.Equal(t, 1, tree.calls)
	assert.NotContains(t, doc, "Project structure")
}

func TestGenerateUndecodableFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "image.png", []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe, 0x00})
	writeFile(t, root, "ok.txt", []byte("fine"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "File: image.png\n```plaintext\n[Unable to read file: image.png]\n\n```\n\n")
	assert.Contains(t, doc, "File: ok.txt\n```plaintext\nfine\n```\n\n")
}

func TestGenerateNormalizesLineEndings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "win.bat", []byte("one\r\ntwo\rthree\n"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "one\ntwo\nthree\n")
	assert.NotContains(t, doc, "\r")
}

func TestGenerateOrderIsLexicographic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b.txt", []byte("1"))
	writeFile(t, root, "a.txt", []byte("2"))
	writeFile(t, root, "B.txt", []byte("3"))

	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	iUpper := strings.Index(doc, "File: B.txt")
	iDot := strings.Index(doc, "File: a.txt")
	iSlash := strings.Index(doc, "File: a/b.txt")
	require.True(t, iUpper >= 0 && iDot >= 0 && iSlash >= 0)
	assert.Less(t, iUpper, iDot)
	assert.Less(t, iDot, iSlash)
}

func TestGenerateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z.go", "m/n.rs", "m/a.ts", "k.json", "big.c"} {
		writeFile(t, root, rel, []byte("content of "+rel+"\n"))
	}
	writeFile(t, root, "big.c", []byte(strings.Repeat("c", 300)))

	a := NewAssembler(&fakeTree{output: "tree"}, &fakeSymbols{output: "syms"}, nil)
	opts := defaultOptions(root)
	opts.MaxFileSize = 200

	assert.Equal(t, generate(t, a, opts), generate(t, a, opts))
}

func TestGenerateSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "real.txt", []byte("real"))
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	opts := defaultOptions(root)
	opts.IncludeTree = false
	doc := generate(t, NewAssembler(nil, nil, nil), opts)

	assert.Contains(t, doc, "File: real.txt")
	assert.NotContains(t, doc, "link.txt")
}

func TestGenerateInvalidRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := NewAssembler(nil, nil, nil).Generate(context.Background(), defaultOptions(missing))
	assert.ErrorIs(t, err, ErrInvalidRoot)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewAssembler(nil, nil, nil).Generate(context.Background(), defaultOptions(file))
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestGenerateReversedRangeIgnoresNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.z", []byte("zed"))
	opts := defaultOptions(root)
	opts.Patterns = filter.PatternSet{Ignore: []string{"*.[z-a]"}}

	doc, err := NewAssembler(nil, nil, nil).Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, doc, "File: a.z\n```plaintext\nzed\n```\n\n")
}

func TestGenerateDrivesProgress(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("a"))
	writeFile(t, root, "b.txt", []byte("b"))

	reporter := &countingReporter{}
	var total int
	a := &Assembler{
		Progress: func(n int) progress.Reporter { total = n; return reporter },
		Logger:   zap.NewNop(),
	}
	opts := defaultOptions(root)
	opts.IncludeTree = false
	generate(t, a, opts)

	assert.Equal(t, 2, total)
	assert.Equal(t, 2, reporter.added)
	assert.True(t, reporter.finished)
}

func TestGenerateCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssembler(nil, nil, nil).Generate(ctx, defaultOptions(root))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", []byte("package main\n"))
	writeFile(t, root, ".git/HEAD", []byte("ref"))

	f, err := filter.New(filter.PatternSet{}, nil)
	require.NoError(t, err)
	files, err := CollectFiles(root, f, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, FileCandidate{
		AbsPath:  filepath.Join(resolved(t, root), "src", "main.go"),
		RelPath:  "src/main.go",
		Size:     13,
		Language: "go",
	}, files[0])
}
