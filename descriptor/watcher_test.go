package descriptor

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/grovetools/hookplan/errors"
	"github.com/grovetools/hookplan/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) <-chan WatchEvent {
	t.Helper()
	events := make(chan WatchEvent, 8)
	w, err := NewWatcher(path, nil, 20*time.Millisecond, func(ev WatchEvent) {
		events <- ev
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return events
}

func waitEvent(t *testing.T, events <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return WatchEvent{}
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)
	events := startWatcher(t, path)

	updated := testutil.Sample + "fail_fast: true\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	ev := waitEvent(t, events)
	require.NoError(t, ev.Err)
	require.NotNil(t, ev.Descriptor)
	assert.True(t, ev.Descriptor.FailFast)
}

func TestWatcherReportsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)
	events := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("repos: []\nci:\n  skip: [black]\n"), 0644))

	ev := waitEvent(t, events)
	require.Error(t, ev.Err)
	assert.Nil(t, ev.Descriptor)
	v, ok := errors.AsValidation(ev.Err)
	require.True(t, ok)
	assert.Equal(t, []errors.ValidationCode{errors.CodeDanglingSkip}, v.Codes())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)
	events := startWatcher(t, path)

	testutil.WriteFile(t, dir, "README.md", "# hello\n")

	select {
	case ev := <-events:
		t.Fatalf("unexpected reload for %s", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)

	events := make(chan WatchEvent, 8)
	w, err := NewWatcher(path, nil, 150*time.Millisecond, func(ev WatchEvent) { events <- ev })
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(testutil.Sample), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	waitEvent(t, events)
	select {
	case <-events:
		t.Fatal("burst of writes produced more than one reload")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher("/nonexistent/dir/.pre-commit-config.yaml", nil, 0, nil)
	assert.Error(t, err)
}

func TestWatcherLogsToConfiguredLogger(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	events := make(chan WatchEvent, 8)
	w, err := NewWatcher(path, nil, 20*time.Millisecond, func(ev WatchEvent) { events <- ev })
	require.NoError(t, err)
	w.SetLogger(logger.WithField("component", "watch"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte(testutil.Sample+"fail_fast: true\n"), 0644))
	ev := waitEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Contains(t, buf.String(), "Descriptor reloaded")
	assert.Contains(t, buf.String(), "component=watch")
}
