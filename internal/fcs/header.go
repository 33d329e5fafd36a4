package fcs

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	headerSize = 58
	// Offsets wider than eight ASCII digits must live in TEXT instead.
	maxHeaderOffset = 99_999_999
)

// Header holds the segment offsets from the first 58 bytes of a file.
// Offsets are inclusive byte positions from the start of the file.
type Header struct {
	Version       string
	TextBegin     int64
	TextEnd       int64
	DataBegin     int64
	DataEnd       int64
	AnalysisBegin int64
	AnalysisEnd   int64
}

func parseHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes", ErrNotFCS, len(buf))
	}
	version := string(buf[0:6])
	if !strings.HasPrefix(version, "FCS") {
		return Header{}, fmt.Errorf("%w: version %q", ErrNotFCS, version)
	}
	var offsets [6]int64
	for i := range offsets {
		field := strings.TrimSpace(string(buf[10+i*8 : 18+i*8]))
		if field == "" {
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return Header{}, fmt.Errorf("%w: header offset %d: %v", ErrMalformed, i, err)
		}
		offsets[i] = v
	}
	h := Header{
		Version:       version,
		TextBegin:     offsets[0],
		TextEnd:       offsets[1],
		DataBegin:     offsets[2],
		DataEnd:       offsets[3],
		AnalysisBegin: offsets[4],
		AnalysisEnd:   offsets[5],
	}
	if h.TextBegin < headerSize || h.TextEnd <= h.TextBegin {
		return Header{}, fmt.Errorf("%w: TEXT segment %d-%d", ErrMalformed, h.TextBegin, h.TextEnd)
	}
	return h, nil
}

func formatHeader(textBegin, textEnd, dataBegin, dataEnd int64) []byte {
	if dataEnd > maxHeaderOffset {
		dataBegin, dataEnd = 0, 0
	}
	return []byte(fmt.Sprintf("FCS3.1    %8d%8d%8d%8d%8d%8d", textBegin, textEnd, dataBegin, dataEnd, 0, 0))
}
