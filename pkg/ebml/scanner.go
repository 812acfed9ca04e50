package ebml

// Element is the header of one element found by a Scanner. It does not copy
// the payload; use Data to view it inside the scanned buffer.
type Element struct {
	ID ID
	// Offset is where the element header starts.
	Offset int
	// DataOffset is where the payload starts.
	DataOffset int
	// DataEnd is the end of the visible payload, clamped to the scan range.
	DataEnd int
	// Size is the declared payload size (0 when UnknownSize is set).
	Size uint64
	// UnknownSize is set for the reserved "size unknown" encoding; such an
	// element extends to the end of its parent.
	UnknownSize bool
	// Truncated is set when the declared size runs past the scan range.
	Truncated bool
}

// Kind returns the registered payload type of the element.
func (e Element) Kind() Kind {
	return e.ID.Kind()
}

// Len returns the number of visible payload bytes.
func (e Element) Len() int {
	return e.DataEnd - e.DataOffset
}

// Data returns the visible payload of e within buf.
func (e Element) Data(buf []byte) []byte {
	return buf[e.DataOffset:e.DataEnd]
}

// Scanner walks the sibling elements of one byte range. Next always moves past
// the whole current element (skip); Descend returns a Scanner over its
// children. Scanners are cheap values and never read outside the range they
// were given.
type Scanner struct {
	buf   []byte
	start int
	end   int
	pos   int
	cur   Element
	done  bool
}

// NewScanner returns a Scanner over the top-level elements of buf.
func NewScanner(buf []byte) *Scanner {
	return NewRangeScanner(buf, 0, len(buf))
}

// NewRangeScanner returns a Scanner over buf[start:end]. Out-of-range bounds
// are clamped to the buffer.
func NewRangeScanner(buf []byte, start, end int) *Scanner {
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start > end {
		start = end
	}
	return &Scanner{buf: buf, start: start, end: end, pos: start}
}

// Next advances to the next element header. It returns false at the end of
// the range. Bytes that do not start a readable header are stepped over by
// the length ReadVint reports for them, so damaged regions such as padding
// are skipped rather than ending the scan.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	window := s.buf[:s.end]
	for s.pos < s.end {
		el, ok := readHeader(window, s.pos)
		if !ok {
			_, n := ReadVint(window, s.pos)
			s.pos += n
			continue
		}

		remaining := uint64(s.end - el.DataOffset)
		switch {
		case el.UnknownSize:
			el.DataEnd = s.end
		case el.Size > remaining:
			el.DataEnd = s.end
			el.Truncated = true
		default:
			el.DataEnd = el.DataOffset + int(el.Size)
		}

		s.cur = el
		s.pos = el.DataEnd
		return true
	}
	s.done = true
	return false
}

// readHeader reads the ID and size at pos. DataEnd is left for the caller.
func readHeader(buf []byte, pos int) (Element, bool) {
	id, idLen, ok := readID(buf, pos)
	if !ok {
		return Element{}, false
	}
	size, sizeLen, unknown, ok := readSize(buf, pos+idLen)
	if !ok {
		return Element{}, false
	}
	return Element{
		ID:          id,
		Offset:      pos,
		DataOffset:  pos + idLen + sizeLen,
		Size:        size,
		UnknownSize: unknown,
	}, true
}

// Element returns the element found by the last successful Next.
func (s *Scanner) Element() Element {
	return s.cur
}

// Descend returns a Scanner over the children of the current element.
func (s *Scanner) Descend() *Scanner {
	return NewRangeScanner(s.buf, s.cur.DataOffset, s.cur.DataEnd)
}

// Reset rewinds the scanner to the start of its range.
func (s *Scanner) Reset() {
	s.pos = s.start
	s.cur = Element{}
	s.done = false
}

// Find scans forward for the first sibling with the given ID.
func (s *Scanner) Find(id ID) (Element, bool) {
	for s.Next() {
		if s.cur.ID == id {
			return s.cur, true
		}
	}
	return Element{}, false
}

// HasSignature reports whether buf starts with an EBML header element.
func HasSignature(buf []byte) bool {
	sig := IDEBML.Bytes()
	if len(buf) < len(sig) {
		return false
	}
	for i, b := range sig {
		if buf[i] != b {
			return false
		}
	}
	return true
}

// DocType returns the DocType string ("matroska", "webm") of the EBML header
// at the start of buf, or "" if there is none.
func DocType(buf []byte) string {
	top := NewScanner(buf)
	header, ok := top.Find(IDEBML)
	if !ok || header.Offset != 0 {
		return ""
	}
	children := NewRangeScanner(buf, header.DataOffset, header.DataEnd)
	el, ok := children.Find(IDDocType)
	if !ok || el.Truncated {
		return ""
	}
	return ReadString(el.Data(buf))
}
