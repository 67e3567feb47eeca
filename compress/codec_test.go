package compress

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/format"
	"github.com/stretchr/testify/require"
)

func allCodecs() map[format.CompressionType]Codec {
	out := make(map[format.CompressionType]Codec)
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		if err != nil {
			panic(err)
		}
		out[ct] = codec
	}

	return out
}

// rulePayload mimics a fixed-layout payload: pairs of little-endian words.
func rulePayload(rules int) []byte {
	buf := make([]byte, 0, rules*8)
	for i := range rules {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(i%97))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(256+i/2))
	}

	return buf
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(format.CompressionS2)
	require.NoError(t, err)
	require.IsType(t, S2Compressor{}, codec)

	_, err = GetCodec(format.CompressionType(0x7))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestCodecs_EmptyPayload(t *testing.T) {
	for ct, codec := range allCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			out, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, out)

			back, err := codec.Decompress(out)
			require.NoError(t, err)
			require.Empty(t, back)
		})
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"single byte":  {0x42},
		"short":        []byte("RLSLP"),
		"fixed rules":  rulePayload(4096),
		"zeros":        make([]byte, 1<<20),
		"packed noise": bytes.Repeat([]byte{0x9d, 0x3b, 0x71, 0xe2, 0x05}, 999),
	}

	for ct, codec := range allCodecs() {
		for name, data := range payloads {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				stored, err := codec.Compress(data)
				require.NoError(t, err)

				back, err := codec.Decompress(stored)
				require.NoError(t, err)
				require.Equal(t, data, back)
			})
		}
	}
}

func TestCodecs_InvalidData(t *testing.T) {
	inputs := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF},
		[]byte("this is not compressed data"),
		{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}

	for ct, codec := range allCodecs() {
		if ct == format.CompressionNone {
			continue
		}
		t.Run(ct.String(), func(t *testing.T) {
			for _, in := range inputs {
				_, err := codec.Decompress(in)
				require.Error(t, err)
			}
		})
	}
}

func TestCodecs_Concurrent(t *testing.T) {
	data := rulePayload(2048)

	for ct, codec := range allCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			var wg sync.WaitGroup
			failures := make(chan error, 16)
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					stored, err := codec.Compress(data)
					if err != nil {
						failures <- err
						return
					}
					back, err := codec.Decompress(stored)
					if err != nil {
						failures <- err
						return
					}
					if !bytes.Equal(back, data) {
						failures <- errs.ErrRoundTripMismatch
					}
				}()
			}
			wg.Wait()
			close(failures)

			for err := range failures {
				require.NoError(t, err)
			}
		})
	}
}

func TestCompressWithStats(t *testing.T) {
	data := rulePayload(4096)

	out, stats, err := CompressWithStats(format.CompressionZstd, data)
	require.NoError(t, err)
	require.Equal(t, len(data), stats.OriginalSize)
	require.Equal(t, len(out), stats.CompressedSize)
	require.Less(t, stats.Ratio(), 1.0)
	require.Greater(t, stats.SpaceSavings(), 0.0)

	_, _, err = CompressWithStats(format.CompressionType(0), data)
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	require.Zero(t, Stats{}.Ratio())
	require.Zero(t, Stats{}.SpaceSavings())
}

func BenchmarkCodecs(b *testing.B) {
	data := rulePayload(1 << 14)

	for ct, codec := range allCodecs() {
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				stored, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := codec.Decompress(stored); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
