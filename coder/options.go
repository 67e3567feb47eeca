package coder

import (
	"fmt"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/format"
	"github.com/arloliu/recomp/internal/options"
)

type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt
)

type encoderConfig struct {
	layout      format.LayoutType
	compression format.CompressionType
	endianness  endianness
}

func newEncoderConfig() *encoderConfig {
	return &encoderConfig{
		layout:      format.LayoutPacked,
		compression: format.CompressionZstd,
		endianness:  littleEndianOpt,
	}
}

// Option configures Encode and WriteTo.
type Option = options.Option[*encoderConfig]

// WithLayout selects the rule layout of the payload. The default is LayoutPacked.
func WithLayout(l format.LayoutType) Option {
	return options.New(func(c *encoderConfig) error {
		if !l.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrUnsupportedLayout, l)
		}
		c.layout = l

		return nil
	})
}

// WithCompression selects the payload codec. The default is CompressionZstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *encoderConfig) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("%w: %v", errs.ErrInvalidCompression, ct)
		}
	})
}

// WithLittleEndian writes header fields, fixed-layout words and the checksum
// little-endian. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *encoderConfig) {
		c.endianness = littleEndianOpt
	})
}

// WithBigEndian writes header fields, fixed-layout words and the checksum big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *encoderConfig) {
		c.endianness = bigEndianOpt
	})
}
