package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-grain/dsp/buffer"
)

func ExampleStream_ReadAdvance() {
	s, err := buffer.NewStream(4)
	if err != nil {
		fmt.Println("error")
		return
	}

	s.WriteSlice([]float64{1, 2, 3, 4, 5})

	fmt.Println(s.ReadAdvance(), s.Cursor())

	// Output:
	// [2 3 4 5] 4
}
