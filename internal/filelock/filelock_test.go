package filelock

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", "test.lock")

	first := NewFileLock(lockPath)
	if err := first.TryLock(); err != nil {
		t.Fatalf("first TryLock() error = %v", err)
	}

	second := NewFileLock(lockPath)
	err := second.TryLock()
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("second TryLock() error = %v, want ErrLocked", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.TryLock(); err != nil {
		t.Fatalf("TryLock() after release error = %v", err)
	}
	second.Unlock()
}

func TestOutputRootLockPath(t *testing.T) {
	dir := t.TempDir()

	a, err := OutputRootLockPath(dir)
	if err != nil {
		t.Fatalf("OutputRootLockPath() error = %v", err)
	}
	b, err := OutputRootLockPath(filepath.Join(dir, "sub", ".."))
	if err != nil {
		t.Fatalf("OutputRootLockPath() error = %v", err)
	}
	if a != b {
		t.Errorf("equivalent roots got different locks: %s vs %s", a, b)
	}

	c, _ := OutputRootLockPath(filepath.Join(dir, "other"))
	if a == c {
		t.Errorf("different roots share lock %s", a)
	}
	if filepath.Dir(a) != filepath.Clean(os.TempDir()) {
		t.Errorf("lock %s not in temp dir", a)
	}
}

func TestLockOutputRoot(t *testing.T) {
	out := t.TempDir()

	lock, err := LockOutputRoot(out)
	if err != nil {
		t.Fatalf("LockOutputRoot() error = %v", err)
	}

	if _, err := LockOutputRoot(out); !errors.Is(err, ErrLocked) {
		t.Errorf("second LockOutputRoot() error = %v, want ErrLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	again, err := LockOutputRoot(out)
	if err != nil {
		t.Fatalf("LockOutputRoot() after unlock error = %v", err)
	}
	again.Unlock()
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "run.json")

	if err := AtomicWrite(path, []byte("first")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if err := AtomicWrite(path, []byte("second")); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("permissions = %v, want 0644", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestConcurrentAtomicWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := WriteJSON(path, map[string]int{"writer": n}); err != nil {
				t.Errorf("WriteJSON() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON after concurrent writes: %v", err)
	}
	if _, ok := decoded["writer"]; !ok {
		t.Errorf("decoded report = %v, missing writer key", decoded)
	}
}
