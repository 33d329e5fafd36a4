package fcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fcsmerge/internal/channels"
)

// Dataset is a fully decoded file.
type Dataset struct {
	Name       string
	Channels   channels.Set
	Events     []float32
	EventCount int
}

// Metadata summarizes a file without decoding its events.
type Metadata struct {
	Name     string
	Events   int
	Channels int
	Size     int64
}

// File is an open FCS file whose HEADER and TEXT have been parsed.
type File struct {
	f        *os.File
	path     string
	header   Header
	keywords Keywords
}

// Open parses the HEADER and TEXT segments of path. DATA is read on demand.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	file := &File{f: f, path: path}
	if err := file.readPreamble(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return file, nil
}

func (f *File) readPreamble() error {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(f.f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: file shorter than header", ErrNotFCS)
		}
		return fmt.Errorf("read header: %w", err)
	}
	header, err := parseHeader(buf)
	if err != nil {
		return err
	}
	text := make([]byte, header.TextEnd-header.TextBegin+1)
	if _, err := f.f.ReadAt(text, header.TextBegin); err != nil {
		return fmt.Errorf("%w: read TEXT segment: %v", ErrMalformed, err)
	}
	kw, err := parseText(text)
	if err != nil {
		return err
	}
	f.header = header
	f.keywords = kw
	return nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	if f == nil || f.f == nil {
		return nil
	}
	return f.f.Close()
}

// Name returns the base name of the file.
func (f *File) Name() string { return filepath.Base(f.path) }

// Header returns the parsed HEADER segment.
func (f *File) Header() Header { return f.header }

// Keywords returns the parsed TEXT segment.
func (f *File) Keywords() Keywords { return f.keywords }

// ChannelCount returns $PAR.
func (f *File) ChannelCount() (int, error) {
	n, err := f.keywords.Int("$PAR")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: $PAR=%d", ErrMalformed, n)
	}
	return int(n), nil
}

// EventCount returns $TOT.
func (f *File) EventCount() (int, error) {
	n, err := f.keywords.Int("$TOT")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: $TOT=%d", ErrMalformed, n)
	}
	return int(n), nil
}

// Channels builds the channel list from $PnN and the optional $PnS keywords.
func (f *File) Channels() (channels.Set, error) {
	n, err := f.ChannelCount()
	if err != nil {
		return channels.Set{}, err
	}
	list := make([]channels.Channel, 0, n)
	for i := 1; i <= n; i++ {
		short, ok := f.keywords.Get(fmt.Sprintf("$P%dN", i))
		if !ok {
			return channels.Set{}, fmt.Errorf("%w: missing $P%dN", ErrMalformed, i)
		}
		long, _ := f.keywords.Get(fmt.Sprintf("$P%dS", i))
		list = append(list, channels.Channel{
			Position:  i,
			ShortName: strings.TrimSpace(short),
			LongName:  strings.TrimSpace(long),
		})
	}
	return channels.NewSet(list)
}

// Events decodes the DATA segment into a row-major float32 buffer.
func (f *File) Events() ([]float32, error) {
	mode, _ := f.keywords.Get("$MODE")
	if m := strings.ToUpper(strings.TrimSpace(mode)); m != "" && m != "L" {
		return nil, fmt.Errorf("%w: $MODE %s", ErrUnsupported, m)
	}
	params, err := f.ChannelCount()
	if err != nil {
		return nil, err
	}
	total, err := f.EventCount()
	if err != nil {
		return nil, err
	}
	dec, err := f.decoder(params)
	if err != nil {
		return nil, err
	}
	values := params * total
	if values == 0 {
		return []float32{}, nil
	}

	begin, end, err := f.dataOffsets()
	if err != nil {
		return nil, err
	}
	need := int64(values * dec.width)
	if end-begin+1 < need {
		return nil, fmt.Errorf("%w: DATA segment holds %d bytes, need %d", ErrMalformed, end-begin+1, need)
	}
	raw := make([]byte, need)
	if _, err := f.f.ReadAt(raw, begin); err != nil {
		return nil, fmt.Errorf("read DATA segment: %w", err)
	}
	out := make([]float32, values)
	for i := range out {
		out[i] = dec.decode(raw[i*dec.width : (i+1)*dec.width])
	}
	return out, nil
}

func (f *File) dataOffsets() (int64, int64, error) {
	begin, end := f.header.DataBegin, f.header.DataEnd
	if begin == 0 && end == 0 {
		var err error
		if begin, err = f.keywords.Int("$BEGINDATA"); err != nil {
			return 0, 0, err
		}
		if end, err = f.keywords.Int("$ENDDATA"); err != nil {
			return 0, 0, err
		}
	}
	if begin <= 0 || end < begin {
		return 0, 0, fmt.Errorf("%w: DATA segment %d-%d", ErrMalformed, begin, end)
	}
	return begin, end, nil
}

type decoder struct {
	width  int
	decode func([]byte) float32
}

func (f *File) decoder(params int) (decoder, error) {
	order, err := f.byteOrder()
	if err != nil {
		return decoder{}, err
	}
	dt, _ := f.keywords.Get("$DATATYPE")
	switch strings.ToUpper(strings.TrimSpace(dt)) {
	case "F":
		return decoder{width: 4, decode: func(b []byte) float32 {
			return math.Float32frombits(order.Uint32(b))
		}}, nil
	case "D":
		return decoder{width: 8, decode: func(b []byte) float32 {
			return float32(math.Float64frombits(order.Uint64(b)))
		}}, nil
	case "I":
		bits, err := f.uniformBits(params)
		if err != nil {
			return decoder{}, err
		}
		switch bits {
		case 8:
			return decoder{width: 1, decode: func(b []byte) float32 { return float32(b[0]) }}, nil
		case 16:
			return decoder{width: 2, decode: func(b []byte) float32 { return float32(order.Uint16(b)) }}, nil
		case 32:
			return decoder{width: 4, decode: func(b []byte) float32 { return float32(order.Uint32(b)) }}, nil
		}
		return decoder{}, fmt.Errorf("%w: integer width %d", ErrUnsupported, bits)
	default:
		return decoder{}, fmt.Errorf("%w: $DATATYPE %q", ErrUnsupported, dt)
	}
}

func (f *File) uniformBits(params int) (int, error) {
	bits := 0
	for i := 1; i <= params; i++ {
		raw, ok := f.keywords.Get(fmt.Sprintf("$P%dB", i))
		if !ok {
			return 0, fmt.Errorf("%w: missing $P%dB", ErrMalformed, i)
		}
		b, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, fmt.Errorf("%w: $P%dB=%q", ErrMalformed, i, raw)
		}
		if bits != 0 && b != bits {
			return 0, fmt.Errorf("%w: mixed integer widths", ErrUnsupported)
		}
		bits = b
	}
	return bits, nil
}

func (f *File) byteOrder() (binary.ByteOrder, error) {
	raw, _ := f.keywords.Get("$BYTEORD")
	switch strings.ReplaceAll(strings.TrimSpace(raw), " ", "") {
	case "1,2,3,4", "1,2", "1,2,3,4,5,6,7,8":
		return binary.LittleEndian, nil
	case "4,3,2,1", "2,1", "8,7,6,5,4,3,2,1":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: $BYTEORD %q", ErrUnsupported, raw)
	}
}

// ReadChannels returns the channel list of path without touching event data.
func ReadChannels(path string) (channels.Set, error) {
	file, err := Open(path)
	if err != nil {
		return channels.Set{}, err
	}
	defer file.Close()
	return file.Channels()
}

// ReadEvents fully decodes path.
func ReadEvents(path string) (Dataset, error) {
	file, err := Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer file.Close()

	set, err := file.Channels()
	if err != nil {
		return Dataset{}, err
	}
	total, err := file.EventCount()
	if err != nil {
		return Dataset{}, err
	}
	events, err := file.Events()
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", file.Name(), err)
	}
	return Dataset{Name: file.Name(), Channels: set, Events: events, EventCount: total}, nil
}

// ReadMetadata reports the event count, channel count, and on-disk size of path.
func ReadMetadata(path string) (Metadata, error) {
	file, err := Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer file.Close()

	info, err := file.f.Stat()
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	events, err := file.EventCount()
	if err != nil {
		return Metadata{}, err
	}
	params, err := file.ChannelCount()
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{Name: file.Name(), Events: events, Channels: params, Size: info.Size()}, nil
}
