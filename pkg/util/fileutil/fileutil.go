// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package fileutil

import (
	"os"
)

// FileExists checks if a file or a directory already exists
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

// ExistingFiles filters out the paths that do not exist
func ExistingFiles(paths ...string) []string {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		if FileExists(p) {
			files = append(files, p)
		}
	}
	return files
}
