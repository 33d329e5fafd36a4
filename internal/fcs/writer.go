package fcs

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"fcsmerge/internal/channels"
)

const (
	textDelimiter = '/'
	// FCS3.1 CRC field; all zeros means no checksum was computed.
	emptyCRC = "00000000"
)

// DataType selects how event values are stored in the DATA segment.
type DataType byte

const (
	Float32 DataType = 'F'
	Float64 DataType = 'D'
)

func (d DataType) width() int {
	if d == Float64 {
		return 8
	}
	return 4
}

// Encoder writes FCS3.1 files. The zero value writes little-endian float32.
type Encoder struct {
	DataType DataType
	// Keywords are appended to the TEXT segment after the required ones.
	Keywords map[string]string
}

// Encode writes set and a row-major event buffer to w.
func (e Encoder) Encode(w io.Writer, set channels.Set, events []float32) error {
	return e.encode(w, set, len(events), func(i int) float64 { return float64(events[i]) })
}

// EncodeFloat64 writes a float64 event buffer. Values are narrowed to float32
// unless the encoder's DataType is Float64.
func (e Encoder) EncodeFloat64(w io.Writer, set channels.Set, events []float64) error {
	return e.encode(w, set, len(events), func(i int) float64 { return events[i] })
}

func (e Encoder) encode(w io.Writer, set channels.Set, count int, at func(int) float64) error {
	if set.Len() == 0 {
		return errors.New("encode: at least one channel is required")
	}
	if count%set.Len() != 0 {
		return fmt.Errorf("encode: %d values do not divide into %d channels", count, set.Len())
	}
	dt := e.DataType
	if dt == 0 {
		dt = Float32
	}
	if dt != Float32 && dt != Float64 {
		return fmt.Errorf("encode: %w: data type %q", ErrUnsupported, dt)
	}

	total := count / set.Len()
	ranges := channelRanges(count, set.Len(), at)
	dataLen := int64(count * dt.width())

	text := e.resolveText(set, total, ranges, dt, dataLen)
	textBegin := int64(headerSize)
	textEnd := textBegin + int64(len(text)) - 1
	dataBegin, dataEnd := dataSpan(textEnd, dataLen)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(formatHeader(textBegin, textEnd, dataBegin, dataEnd)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := bw.Write(text); err != nil {
		return fmt.Errorf("write TEXT: %w", err)
	}
	if err := writeData(bw, count, at, dt); err != nil {
		return fmt.Errorf("write DATA: %w", err)
	}
	if _, err := bw.WriteString(emptyCRC); err != nil {
		return fmt.Errorf("write CRC: %w", err)
	}
	return bw.Flush()
}

// resolveText builds the TEXT segment. $BEGINDATA/$ENDDATA depend on the
// segment's own length, so the segment is rebuilt until the offsets settle.
func (e Encoder) resolveText(set channels.Set, total int, ranges []int64, dt DataType, dataLen int64) []byte {
	var dataBegin, dataEnd int64
	var text []byte
	for i := 0; i < 8; i++ {
		text = encodeText(textDelimiter, e.keywords(set, total, ranges, dt, dataBegin, dataEnd))
		textEnd := int64(headerSize) + int64(len(text)) - 1
		begin, end := dataSpan(textEnd, dataLen)
		if begin == dataBegin && end == dataEnd {
			break
		}
		dataBegin, dataEnd = begin, end
	}
	return text
}

func dataSpan(textEnd, dataLen int64) (int64, int64) {
	if dataLen == 0 {
		return 0, 0
	}
	begin := textEnd + 1
	return begin, begin + dataLen - 1
}

func (e Encoder) keywords(set channels.Set, total int, ranges []int64, dt DataType, dataBegin, dataEnd int64) []keyword {
	itoa := func(v int64) string { return strconv.FormatInt(v, 10) }
	pairs := []keyword{
		{"$BEGINANALYSIS", "0"},
		{"$ENDANALYSIS", "0"},
		{"$BEGINSTEXT", "0"},
		{"$ENDSTEXT", "0"},
		{"$BEGINDATA", itoa(dataBegin)},
		{"$ENDDATA", itoa(dataEnd)},
		{"$BYTEORD", "1,2,3,4"},
		{"$DATATYPE", string(dt)},
		{"$MODE", "L"},
		{"$NEXTDATA", "0"},
		{"$PAR", strconv.Itoa(set.Len())},
		{"$TOT", strconv.Itoa(total)},
	}
	bits := strconv.Itoa(dt.width() * 8)
	for i, ch := range set.Channels() {
		n := i + 1
		pairs = append(pairs,
			keyword{fmt.Sprintf("$P%dB", n), bits},
			keyword{fmt.Sprintf("$P%dE", n), "0,0"},
			keyword{fmt.Sprintf("$P%dN", n), nonEmpty(ch.ShortName, fmt.Sprintf("P%d", n))},
			keyword{fmt.Sprintf("$P%dR", n), itoa(ranges[i])},
		)
		if ch.LongName != "" {
			pairs = append(pairs, keyword{fmt.Sprintf("$P%dS", n), ch.LongName})
		}
	}
	for _, key := range sortedKeys(e.Keywords) {
		pairs = append(pairs, keyword{key, nonEmpty(e.Keywords[key], " ")})
	}
	return pairs
}

// channelRanges returns $PnR for each channel: the ceiling of the largest
// finite value, at least 1.
func channelRanges(count, width int, at func(int) float64) []int64 {
	ranges := make([]int64, width)
	for i := range ranges {
		ranges[i] = 1
	}
	for i := 0; i < count; i++ {
		f := at(i)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if c := int64(math.Ceil(f)); c > ranges[i%width] {
			ranges[i%width] = c
		}
	}
	return ranges
}

func writeData(w io.Writer, count int, at func(int) float64, dt DataType) error {
	const chunk = 16 * 1024
	buf := make([]byte, 0, chunk*dt.width())
	var scratch [8]byte
	for i := 0; i < count; i++ {
		switch dt {
		case Float64:
			binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(at(i)))
		default:
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(float32(at(i))))
		}
		buf = append(buf, scratch[:dt.width()]...)
		if (i+1)%chunk == 0 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		_, err := w.Write(buf)
		return err
	}
	return nil
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// WriteSet encodes set and events to a new file at path, replacing any
// existing file.
func WriteSet(path string, set channels.Set, events []float32) error {
	return WriteFile(path, Encoder{}, set, events)
}

// Write encodes events under the given channel labels ($PnN) to path.
func Write(path string, labels []string, events []float32) error {
	return WriteFile(path, Encoder{}, channels.FromLabels(labels...), events)
}

// WriteFile encodes with enc to path and syncs the file before returning.
func WriteFile(path string, enc Encoder, set channels.Set, events []float32) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := enc.Encode(f, set, events); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return f.Close()
}
