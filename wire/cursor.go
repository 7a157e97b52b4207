package wire

// A Writer accumulates packed bytes. Unlike fragments.Encoder in
// DBus-shaped codecs, Writer never inserts alignment padding; every
// byte it emits was asked for explicitly by the caller.
type Writer struct {
	Order ByteOrder
	Out   []byte
}

// Grow ensures Out has room for at least n more bytes without
// reallocating, without changing its length.
func (w *Writer) Grow(n int) {
	if cap(w.Out)-len(w.Out) >= n {
		return
	}
	grown := make([]byte, len(w.Out), len(w.Out)+n)
	copy(grown, w.Out)
	w.Out = grown
}

// Bytes appends bs verbatim.
func (w *Writer) Bytes(bs []byte) {
	w.Out = append(w.Out, bs...)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	for i := 0; i < n; i++ {
		w.Out = append(w.Out, 0)
	}
}

// Uint8 appends a single byte.
func (w *Writer) Uint8(v uint8) {
	w.Out = append(w.Out, v)
}

// Uint16 appends a uint16 in w.Order.
func (w *Writer) Uint16(v uint16) {
	w.Out = w.Order.AppendUint16(w.Out, v)
}

// Uint32 appends a uint32 in w.Order.
func (w *Writer) Uint32(v uint32) {
	w.Out = w.Order.AppendUint32(w.Out, v)
}

// Uint64 appends a uint64 in w.Order.
func (w *Writer) Uint64(v uint64) {
	w.Out = w.Order.AppendUint64(w.Out, v)
}

// A Reader consumes bytes off the front of a buffer, tracking how
// many bytes would still be needed to satisfy a read that ran past
// the end (the MissingBytes{Need} case throughout cstruct).
type Reader struct {
	Order ByteOrder
	buf   []byte
}

// NewReader wraps buf for sequential reads.
func NewReader(order ByteOrder, buf []byte) *Reader {
	return &Reader{Order: order, buf: buf}
}

// Len reports how many unread bytes remain.
func (r *Reader) Len() int { return len(r.buf) }

// Rest returns the unread tail of the buffer without consuming it.
func (r *Reader) Rest() []byte { return r.buf }

// Read consumes exactly n bytes, or reports how many more bytes would
// be needed.
func (r *Reader) Read(n int) (bs []byte, need int, ok bool) {
	if len(r.buf) < n {
		return nil, n - len(r.buf), false
	}
	bs, r.buf = r.buf[:n], r.buf[n:]
	return bs, 0, true
}

func (r *Reader) Uint8() (uint8, bool) {
	bs, _, ok := r.Read(1)
	if !ok {
		return 0, false
	}
	return bs[0], true
}

func (r *Reader) Uint16() (uint16, bool) {
	bs, _, ok := r.Read(2)
	if !ok {
		return 0, false
	}
	return r.Order.Uint16(bs), true
}

func (r *Reader) Uint32() (uint32, bool) {
	bs, _, ok := r.Read(4)
	if !ok {
		return 0, false
	}
	return r.Order.Uint32(bs), true
}

func (r *Reader) Uint64() (uint64, bool) {
	bs, _, ok := r.Read(8)
	if !ok {
		return 0, false
	}
	return r.Order.Uint64(bs), true
}

// PutUint16 overwrites 2 bytes at offset off in bs, for callers that
// need to patch a previously-reserved length field.
func PutUint16(order ByteOrder, bs []byte, off int, v uint16) { order.PutUint16(bs[off:], v) }

// PutUint32 is the 4-byte equivalent of PutUint16.
func PutUint32(order ByteOrder, bs []byte, off int, v uint32) { order.PutUint32(bs[off:], v) }
