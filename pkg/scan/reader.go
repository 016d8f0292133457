package scan

import (
	"io"

	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/pool"
)

// Reader pulls fixed-capacity raw buffers from an underlying byte source
// and reassembles them so each buffer it hands out contains only complete
// lines. A partial trailing line is carried over and prepended to the next
// read, so lines longer than the read capacity are still delivered whole.
//
// The final-newline policy is configurable: by default a non-empty
// carry-over at end of input is accepted as the last record (a terminator
// is synthesized); in strict mode it fails with truncated_record.
type Reader struct {
	src    io.Reader
	raw    []byte // pooled read target
	window []byte // carry + raw, reused across iterations
	carry  []byte // partial line awaiting more bytes
	offset int64  // source offset of the start of the last returned chunk
	read   int64  // total bytes consumed from src
	strict bool
	done   bool
	closed bool
}

// NewReader creates a Reader drawing capacity-sized buffers from the
// global buffer pool. strictFinalNewline selects the truncation policy
// for input that does not end in a newline.
func NewReader(src io.Reader, capacity int, strictFinalNewline bool) *Reader {
	return &Reader{
		src:    src,
		raw:    pool.GlobalBufferPool.Get(capacity),
		window: make([]byte, 0, capacity),
		strict: strictFinalNewline,
	}
}

// Next returns the next buffer of complete lines. The returned slice is
// only valid until the following call to Next. It may be empty when a
// read produced no complete line yet; that is not an error, the caller
// simply skips the iteration. io.EOF signals clean exhaustion.
func (r *Reader) Next() ([]byte, error) {
	for {
		if r.done {
			return nil, io.EOF
		}

		n, err := r.src.Read(r.raw)
		if n == 0 {
			if err == nil {
				continue
			}
			if err != io.EOF {
				return nil, errors.Wrap(err, errors.ErrorTypeIO, "source read failed").
					WithDetail("offset", r.read)
			}
			return r.finish()
		}
		r.read += int64(n)

		r.window = append(r.window[:0], r.carry...)
		r.window = append(r.window, r.raw[:n]...)

		complete, partial := SplitLines(r.window)
		r.carry = append(r.carry[:0], partial...)

		r.offset = r.read - int64(len(partial)) - int64(len(complete))
		if err == io.EOF && len(r.carry) > 0 {
			// The source reported EOF on the same read; resolve the
			// leftover now rather than waiting for a zero-length read.
			return r.finishWith(complete)
		}
		return complete, nil
	}
}

// finish resolves a non-empty carry-over at end of input according to the
// configured policy.
func (r *Reader) finish() ([]byte, error) {
	return r.finishWith(nil)
}

func (r *Reader) finishWith(complete []byte) ([]byte, error) {
	r.done = true
	if len(r.carry) == 0 {
		if len(complete) > 0 {
			return complete, nil
		}
		return nil, io.EOF
	}
	if r.strict {
		return nil, errors.New(errors.ErrorTypeTruncated, "input ends mid-record").
			WithDetail("offset", r.read-int64(len(r.carry))).
			WithDetail("partial", string(r.carry))
	}

	// Accept policy: treat the unterminated tail as the final record.
	tail := len(complete)
	r.window = append(r.window[:0], complete...)
	r.window = append(r.window, r.carry...)
	r.window = append(r.window, '\n')
	r.offset = r.read - int64(len(r.carry)) - int64(tail)
	r.carry = r.carry[:0]
	return r.window, nil
}

// Offset returns the source byte offset at which the most recently
// returned buffer begins. Used for error locations.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Close returns the pooled read buffer. The Reader must not be used after.
func (r *Reader) Close() {
	if r.closed {
		return
	}
	r.closed = true
	pool.GlobalBufferPool.Put(r.raw)
	r.raw = nil
}
