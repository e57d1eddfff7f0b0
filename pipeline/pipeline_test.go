package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/spfmt/internal"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Run(path string) (internal.Result, error) {
	args := m.Called(path)
	return args.Get(0).(internal.Result), args.Error(1)
}

func (m *mockEngine) RunSource(source []byte) (internal.Result, error) {
	args := m.Called(source)
	return args.Get(0).(internal.Result), args.Error(1)
}

func createFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestProcessPath_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{
		"b.rq":            "ask { }",
		"a.sparql":        "ask { }",
		"nested/c.ru":     "clear all",
		"notes.txt":       "not a template",
		"nested/skip.txt": "not a template",
	})

	engine := new(mockEngine)
	for _, name := range []string{"a.sparql", "b.rq", "nested/c.ru"} {
		path := filepath.Join(dir, name)
		engine.On("Run", path).Return(internal.Result{Filename: path}, nil)
	}

	results, err := ProcessPath(context.Background(), zap.NewNop(), engine, DefaultConfig(), dir, ProcessFile)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, filepath.Join(dir, "a.sparql"), results[0].Filename)
	assert.Equal(t, filepath.Join(dir, "b.rq"), results[1].Filename)
	assert.Equal(t, filepath.Join(dir, "nested", "c.ru"), results[2].Filename)
	engine.AssertExpectations(t)
}

func TestProcessPath_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{"query.txt": "ask { }"})
	path := filepath.Join(dir, "query.txt")

	engine := new(mockEngine)
	engine.On("Run", path).Return(internal.Result{Filename: path, Output: "ASK {\n}\n"}, nil)

	results, err := ProcessPath(context.Background(), nil, engine, DefaultConfig(), path, ProcessFile)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ASK {\n}\n", results[0].Output)
}

func TestProcessPath_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{"bad.rq": "", "good.rq": ""})
	bad := filepath.Join(dir, "bad.rq")
	good := filepath.Join(dir, "good.rq")

	engine := new(mockEngine)
	engine.On("Run", bad).Return(internal.Result{}, errors.New("boom"))
	engine.On("Run", good).Return(internal.Result{Filename: good}, nil)

	results, err := ProcessPath(context.Background(), zap.NewNop(), engine, DefaultConfig(), dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, good, results[0].Filename)

	_, err = ProcessPath(context.Background(), nil, engine, DefaultConfig(), bad, ProcessFile)
	assert.Error(t, err)

	_, err = ProcessPath(context.Background(), nil, engine, DefaultConfig(), filepath.Join(dir, "missing"), ProcessFile)
	assert.Error(t, err)
}

func TestProcessPath_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{"a.rq": "", "b.rq": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := new(mockEngine)
	results, err := ProcessPath(ctx, nil, engine, DefaultConfig(), dir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	engine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{"one.rq": "", "two.rq": ""})
	one := filepath.Join(dir, "one.rq")
	two := filepath.Join(dir, "two.rq")

	engine := new(mockEngine)
	engine.On("Run", one).Return(internal.Result{Filename: one}, nil)
	engine.On("Run", two).Return(internal.Result{Filename: two}, nil)

	results, err := ProcessFiles(context.Background(), nil, engine, DefaultConfig(), []string{two, one}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, two, results[0].Filename)
	assert.Equal(t, one, results[1].Filename)

	_, err = ProcessFiles(context.Background(), nil, engine, DefaultConfig(), []string{one, filepath.Join(dir, "missing.rq")}, ProcessFile)
	assert.Error(t, err)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()

	source := []byte("ask { }")
	engine := new(mockEngine)
	engine.On("RunSource", source).Return(internal.Result{Filename: "<stdin>"}, nil)

	res, err := ProcessSource(engine, source)
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", res.Filename)
	engine.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createFiles(t, dir, map[string]string{
		"prefixes.txt": "PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n",
		"query.rq":     "select * where { ?s foaf:name ?n }",
	})

	config := DefaultConfig()
	config.PrefixFiles = []string{filepath.Join(dir, "prefixes.txt")}
	config.CacheDir = filepath.Join(dir, "cache")

	engine, err := New(config, zap.NewNop())
	require.NoError(t, err)

	res, err := engine.Run(filepath.Join(dir, "query.rq"))
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Equal(t, "PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n\nSELECT * WHERE {\n  ?s foaf:name ?n .\n}\n", res.Output)
	assert.FileExists(t, filepath.Join(dir, "cache", "spfmt_cache.gob"))

	config.MaxIterations = 0
	_, err = New(config, nil)
	assert.Error(t, err)
}
