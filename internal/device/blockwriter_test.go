package device

import (
	"errors"
	"testing"
)

// collectBlocks returns a blockWriter plus the blocks it emitted.
func collectBlocks(frames int) (*blockWriter, *[][]int16) {
	var emitted [][]int16
	w := newBlockWriter(frames, func(block []int16) error {
		emitted = append(emitted, append([]int16(nil), block...))
		return nil
	})
	return w, &emitted
}

func TestBlockWriterCarriesTailAcrossPushes(t *testing.T) {
	w, emitted := collectBlocks(4)

	if err := w.push(samplesToBytes([]int16{1, 2, 3, 4, 5, 6})); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := w.push(samplesToBytes([]int16{7, 8, 9, 10})); err != nil {
		t.Fatalf("push: %v", err)
	}

	// The tail of the first push joins the head of the second: no padding
	// between buffers, the stream stays contiguous.
	want := [][]int16{{1, 2, 3, 4}, {5, 6, 7, 8}}
	if len(*emitted) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(*emitted))
	}
	for i, block := range want {
		for j, s := range block {
			if (*emitted)[i][j] != s {
				t.Fatalf("block %d: expected %v, got %v", i, block, (*emitted)[i])
			}
		}
	}
}

func TestBlockWriterFlushPadsTail(t *testing.T) {
	w, emitted := collectBlocks(4)

	if err := w.push(samplesToBytes([]int16{1, 2, 3, 4, 5, 6})); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := w.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if len(*emitted) != 2 {
		t.Fatalf("expected 2 blocks after flush, got %d", len(*emitted))
	}
	tail := (*emitted)[1]
	want := []int16{5, 6, 0, 0}
	for i, s := range want {
		if tail[i] != s {
			t.Fatalf("expected padded tail %v, got %v", want, tail)
		}
	}

	// Nothing left: flushing again emits nothing.
	if err := w.flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if len(*emitted) != 2 {
		t.Fatalf("second flush emitted a block: %d total", len(*emitted))
	}
}

func TestBlockWriterExactMultipleLeavesNoTail(t *testing.T) {
	w, emitted := collectBlocks(4)

	if err := w.push(samplesToBytes([]int16{1, 2, 3, 4, 5, 6, 7, 8})); err != nil {
		t.Fatalf("push: %v", err)
	}
	if len(*emitted) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(*emitted))
	}
	if err := w.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(*emitted) != 2 {
		t.Fatal("flush after an exact multiple emitted a block")
	}
}

func TestBlockWriterPropagatesEmitError(t *testing.T) {
	wantErr := errors.New("device gone")
	w := newBlockWriter(2, func([]int16) error { return wantErr })

	if err := w.push(samplesToBytes([]int16{1, 2, 3})); !errors.Is(err, wantErr) {
		t.Fatalf("expected emit error, got %v", err)
	}
}
