package offsetindex

import "testing"

func TestLineColumn(t *testing.T) {
	contents := []byte("int a;\nint b;\nint c;\n")

	tests := []struct {
		name      string
		off       int
		line, col int
	}{
		{"first byte of first line", 0, 1, 1},
		{"mid first line", 3, 1, 4},
		{"first byte of second line", 7, 2, 1},
		{"mid second line", 10, 2, 4},
		{"first byte of third line", 14, 3, 1},
		{"offset beyond contents clamps", 1000, 4, 1},
		{"negative offset clamps to zero", -5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := LineColumn(contents, tt.off)
			if line != tt.line || col != tt.col {
				t.Errorf("LineColumn(%d) = (%d, %d), want (%d, %d)", tt.off, line, col, tt.line, tt.col)
			}
		})
	}
}
