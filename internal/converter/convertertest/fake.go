// Package convertertest provides a stand-in converter executable for tests.
package convertertest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Version is what the fake converter prints for --version.
const Version = "1.4.550"

// fakeScript mimics "quarto convert <src> --output <dst>" by copying the
// source. Source file names (not directories) steer its behaviour:
//
//	*bad*       exit 1 with a diagnostic on stderr
//	*slow*      sleep for 30s before converting
//	*nooutput*  exit 0 without writing anything
//
// Every invocation appends the source path to $QBC_FAKE_LOG when set.
const fakeScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "` + Version + `"
  exit 0
fi
if [ "$1" != "convert" ] || [ "$3" != "--output" ]; then
  echo "usage: convert <src> --output <dst>" >&2
  exit 2
fi
if [ -n "$QBC_FAKE_LOG" ]; then
  echo "$2" >> "$QBC_FAKE_LOG"
fi
case "$(basename "$2")" in
  *bad*)
    echo "Converting $2"
    echo "ERROR: unable to parse $2" >&2
    exit 1
    ;;
  *slow*)
    exec sleep 30
    ;;
  *nooutput*)
    exit 0
    ;;
esac
cp "$2" "$4"
`

// Install writes the fake converter into a temporary directory and returns
// its absolute path. Tests are skipped on Windows.
func Install(t testing.TB) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake converter requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "quarto")
	if err := os.WriteFile(path, []byte(fakeScript), 0755); err != nil {
		t.Fatalf("failed to write fake converter: %v", err)
	}
	return path
}

// InstallOnPath installs the fake converter and prepends its directory to
// PATH for the duration of the test.
func InstallOnPath(t testing.TB) string {
	t.Helper()
	path := Install(t)
	t.Setenv("PATH", filepath.Dir(path)+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

// Invocations returns a function reporting the sources the fake converter
// was run on, in invocation order.
func Invocations(t testing.TB) func() []string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv("QBC_FAKE_LOG", logPath)
	return func() []string {
		data, err := os.ReadFile(logPath)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			t.Fatalf("failed to read invocation log: %v", err)
		}
		trimmed := strings.TrimRight(string(data), "\n")
		if trimmed == "" {
			return nil
		}
		return strings.Split(trimmed, "\n")
	}
}
