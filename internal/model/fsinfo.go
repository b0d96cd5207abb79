// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
package model

import "fmt"

// FSInfo records where a definition was declared.
type FSInfo struct {
	FilePath string
	Line     int
}

func NewFSInfo(filePath string, line int) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
		Line:     line,
	}
}

// String renders the location as "path:line".
func (f *FSInfo) String() string {
	if f == nil {
		return "<unknown>"
	}
	if f.Line == 0 {
		return f.FilePath
	}
	return fmt.Sprintf("%s:%d", f.FilePath, f.Line)
}
