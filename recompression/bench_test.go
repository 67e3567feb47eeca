package recompression

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkRecompress(b *testing.B) {
	input := runHeavyText(1<<18, 16, 1)

	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			e, err := New(WithWorkers(workers))
			require.NoError(b, err)

			b.ReportAllocs()
			b.SetBytes(int64(len(input)) * 4)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := e.Recompress(input, 16)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
