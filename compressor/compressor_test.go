package compressor

import (
	"fmt"
	"testing"
)

func TestCompressor_Compress(t *testing.T) {
	x := 0 // no production

	allCompressors := func() []Compressor {
		return []Compressor{
			NewUniqueEntriesTable(),
			NewRowDisplacementTable(x),
		}
	}

	tests := []struct {
		caption  string
		original []int
		rowCount int
		colCount int
	}{
		{
			caption: "a prediction table of `A → a B C; B → b bas | big C boss; C → ε | c`",
			original: []int{
				// $ a  b  bas big c  boss
				x, x, x, x, x, x, x, x, // nil row
				x, x, 1, x, x, x, x, x, // A
				x, x, x, 2, x, 3, x, x, // B
				x, 4, x, x, x, x, 5, 4, // C
			},
			rowCount: 4,
			colCount: 8,
		},
		{
			caption: "every cell is empty",
			original: []int{
				x, x, x, x, x,
				x, x, x, x, x,
				x, x, x, x, x,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "rows repeat",
			original: []int{
				1, x, 2, x, 3,
				x, x, x, x, x,
				1, x, 2, x, 3,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "every cell is filled",
			original: []int{
				1, 1, 1, 1, 1,
				2, 2, 2, 2, 2,
				3, 3, 3, 3, 3,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "rows interleave",
			original: []int{
				1, x, 1, x, 1,
				x, 2, x, 2, x,
				3, 3, x, x, 3,
			},
			rowCount: 3,
			colCount: 5,
		},
	}
	for i, tt := range tests {
		for _, comp := range allCompressors() {
			t.Run(fmt.Sprintf("%T #%v %v", comp, i, tt.caption), func(t *testing.T) {
				dup := make([]int, len(tt.original))
				copy(dup, tt.original)

				orig, err := NewOriginalTable(tt.original, tt.colCount)
				if err != nil {
					t.Fatal(err)
				}
				err = comp.Compress(orig)
				if err != nil {
					t.Fatal(err)
				}
				rowCount, colCount := comp.OriginalTableSize()
				if rowCount != tt.rowCount || colCount != tt.colCount {
					t.Fatalf("unexpected table size; want: %vx%v, got: %vx%v", tt.rowCount, tt.colCount, rowCount, colCount)
				}
				for i := 0; i < tt.rowCount; i++ {
					for j := 0; j < tt.colCount; j++ {
						v, err := comp.Lookup(i, j)
						if err != nil {
							t.Fatal(err)
						}
						expected := tt.original[i*tt.colCount+j]
						if v != expected {
							t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", i, j, expected, v)
						}
					}
				}

				if _, err := comp.Lookup(0, -1); err == nil {
					t.Fatalf("expected error didn't occur (0, -1)")
				}
				if _, err := comp.Lookup(-1, 0); err == nil {
					t.Fatalf("expected error didn't occur (-1, 0)")
				}
				if _, err := comp.Lookup(rowCount-1, colCount); err == nil {
					t.Fatalf("expected error didn't occur (%v, %v)", rowCount-1, colCount)
				}
				if _, err := comp.Lookup(rowCount, colCount-1); err == nil {
					t.Fatalf("expected error didn't occur (%v, %v)", rowCount, colCount-1)
				}

				for i := range tt.original {
					if tt.original[i] != dup[i] {
						t.Fatalf("the original table is broken at %v; want: %v, got: %v", i, dup[i], tt.original[i])
					}
				}
			})
		}
	}
}

func TestUniqueEntriesTable_SharesRows(t *testing.T) {
	orig, err := NewOriginalTable([]int{
		1, 0, 2,
		0, 0, 0,
		1, 0, 2,
		0, 0, 0,
	}, 3)
	if err != nil {
		t.Fatal(err)
	}
	tab := NewUniqueEntriesTable()
	if err := tab.Compress(orig); err != nil {
		t.Fatal(err)
	}
	if tab.UniqueRowCount() != 2 {
		t.Fatalf("unexpected unique row count; want: 2, got: %v", tab.UniqueRowCount())
	}
	if tab.RowNums[0] != tab.RowNums[2] || tab.RowNums[1] != tab.RowNums[3] {
		t.Fatalf("identical rows must share a row number: %v", tab.RowNums)
	}
}

func TestNewOriginalTable_Errors(t *testing.T) {
	if _, err := NewOriginalTable(nil, 1); err == nil {
		t.Fatal("an empty table must be rejected")
	}
	if _, err := NewOriginalTable([]int{1, 2}, 0); err == nil {
		t.Fatal("a non-positive column count must be rejected")
	}
	if _, err := NewOriginalTable([]int{1, 2, 3}, 2); err == nil {
		t.Fatal("a ragged table must be rejected")
	}
}
