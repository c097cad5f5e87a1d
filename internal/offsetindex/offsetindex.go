// Package offsetindex translates absolute byte offsets into (line, column)
// pairs, the way clang-format and clang-tidy report the location of a
// replacement or diagnostic.
package offsetindex

import "bytes"

// LineColumn returns the 1-based (line, column) for the byte offset off
// within contents. Line is 1 plus the number of newline bytes in
// contents[0:off]. Column is off minus the index of the last newline before
// off; on the first line that index is -1, so column equals off+1.
func LineColumn(contents []byte, off int) (line, column int) {
	if off < 0 {
		off = 0
	}
	if off > len(contents) {
		off = len(contents)
	}
	prefix := contents[:off]
	line = 1 + bytes.Count(prefix, []byte{'\n'})
	last := bytes.LastIndexByte(prefix, '\n')
	column = off - last
	return line, column
}
