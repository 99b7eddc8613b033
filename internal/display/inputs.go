package display

import (
	"os"

	"github.com/harrison/qbc/internal/fileutil"
)

// CountFilesWithExt counts documents with extension ext under the directory
// inputs. File inputs and unreadable paths are ignored.
func CountFilesWithExt(inputs []string, ext string, recursive bool) int {
	opts := fileutil.ScanOptions{
		Extensions: []string{ext},
		Recursive:  recursive,
	}

	count := 0
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil || !info.IsDir() {
			continue
		}
		result, err := fileutil.ScanDirectory(input, opts)
		if err != nil {
			continue
		}
		count += len(result.Files)
	}
	return count
}
