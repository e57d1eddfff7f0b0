package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_HandleFileEvent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := filepath.Join(dir, "query.rq")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(template, []byte("ask { ?s ?p ?o }"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("ask { ?s ?p ?o }"), 0o644))

	var results []Result
	engine := NewEngine(Config{Format: true, Indent: 2}, nil)
	w, err := NewWatcher(engine, nil, []string{".rq"}, func(r Result) {
		results = append(results, r)
	})
	require.NoError(t, err)
	defer w.watcher.Close()

	w.handleFileEvent(fsnotify.Event{Name: other, Op: fsnotify.Write})
	w.handleFileEvent(fsnotify.Event{Name: template, Op: fsnotify.Remove})
	assert.Empty(t, results)

	w.handleFileEvent(fsnotify.Event{Name: template, Op: fsnotify.Write})
	require.Len(t, results, 1)
	assert.Equal(t, template, results[0].Filename)
	assert.Equal(t, "ASK {\n  ?s ?p ?o .\n}\n", results[0].Output)
}

func TestWatcher_StartStop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	w, err := NewWatcher(NewEngine(Config{}, nil), nil, []string{".rq"}, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start([]string{dir}))
	assert.Error(t, w.Start([]string{dir}))

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
