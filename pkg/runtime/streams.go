package runtime

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// StreamValue is a named handle over a reader, a writer or an in-memory buffer.
type StreamValue struct {
	Name     string
	reader   *bufio.Reader
	writer   io.Writer
	memory   *bytes.Buffer
	closer   io.Closer
	readable bool
	writable bool
	closed   bool
}

func (v *StreamValue) Kind() Kind { return KindStream }

// NewReaderStream wraps r as a readable stream.
func NewReaderStream(name string, r io.Reader) *StreamValue {
	s := &StreamValue{Name: name, reader: bufio.NewReader(r), readable: true}
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		s.closer = c
	}
	return s
}

// NewWriterStream wraps w as a writable stream.
func NewWriterStream(name string, w io.Writer) *StreamValue {
	s := &StreamValue{Name: name, writer: w, writable: true}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		s.closer = c
	}
	return s
}

// NewMemoryReader is a readable stream over a fixed byte slice.
func NewMemoryReader(data []byte) *StreamValue {
	return &StreamValue{Name: "memory", reader: bufio.NewReader(bytes.NewReader(data)), readable: true}
}

// NewMemoryWriter is a writable stream that accumulates into a buffer.
func NewMemoryWriter() *StreamValue {
	buf := &bytes.Buffer{}
	return &StreamValue{Name: "memory", writer: buf, memory: buf, writable: true}
}

func (v *StreamValue) IsReadable() bool { return v.readable && !v.closed }

func (v *StreamValue) IsWritable() bool { return v.writable && !v.closed }

func (v *StreamValue) IsClosed() bool { return v.closed }

// IsMemory reports whether the stream is backed by an in-memory buffer.
func (v *StreamValue) IsMemory() bool { return v.memory != nil }

func (v *StreamValue) checkReadable() error {
	if v.closed {
		return Errorf(ErrStream, "stream %s is closed", v.Name)
	}
	if !v.readable {
		return Errorf(ErrStream, "stream %s is not readable", v.Name)
	}
	return nil
}

func (v *StreamValue) checkWritable() error {
	if v.closed {
		return Errorf(ErrStream, "stream %s is closed", v.Name)
	}
	if !v.writable {
		return Errorf(ErrStream, "stream %s is not writable", v.Name)
	}
	return nil
}

// ReadAll consumes the remaining input.
func (v *StreamValue) ReadAll() (string, error) {
	if err := v.checkReadable(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(v.reader)
	if err != nil {
		return "", Errorf(ErrStream, "read %s: %v", v.Name, err)
	}
	return string(data), nil
}

// ReadLine returns the next line without its terminator; ok is false at EOF.
func (v *StreamValue) ReadLine() (line string, ok bool, err error) {
	if err := v.checkReadable(); err != nil {
		return "", false, err
	}
	text, readErr := v.reader.ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return "", false, Errorf(ErrStream, "read %s: %v", v.Name, readErr)
	}
	if readErr == io.EOF && text == "" {
		return "", false, nil
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, true, nil
}

// Write appends text to the stream.
func (v *StreamValue) Write(text string) error {
	if err := v.checkWritable(); err != nil {
		return err
	}
	if _, err := io.WriteString(v.writer, text); err != nil {
		return Errorf(ErrStream, "write %s: %v", v.Name, err)
	}
	return nil
}

// Close marks the stream closed and releases any owned handle.
func (v *StreamValue) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	if v.closer != nil {
		if err := v.closer.Close(); err != nil {
			return Errorf(ErrStream, "close %s: %v", v.Name, err)
		}
	}
	return nil
}

// TakeOutput drains and resets an in-memory buffer.
func (v *StreamValue) TakeOutput() []byte {
	if v.memory == nil {
		return nil
	}
	out := make([]byte, v.memory.Len())
	copy(out, v.memory.Bytes())
	v.memory.Reset()
	return out
}

// Writer exposes the stream as an io.Writer for process plumbing.
func (v *StreamValue) Writer() io.Writer {
	return streamWriter{v}
}

type streamWriter struct{ s *StreamValue }

func (w streamWriter) Write(p []byte) (int, error) {
	if err := w.s.Write(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (v *StreamValue) String() string {
	return fmt.Sprintf("<stream %s>", v.Name)
}

// StdStream selects one of the ambient streams.
type StdStream int

const (
	Stdin StdStream = iota
	Stdout
	Stderr
)

func (s StdStream) String() string {
	switch s {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	default:
		return "stderr"
	}
}

// StreamProxyValue resolves to the current I/O context's stream at use time,
// so it follows pipe redirection.
type StreamProxyValue struct {
	Which StdStream
}

func (StreamProxyValue) Kind() Kind { return KindStream }

// IOContext is the set of ambient streams evaluation writes to and reads from.
type IOContext struct {
	Stdin  *StreamValue
	Stdout *StreamValue
	Stderr *StreamValue
}

// NewIOContext wraps process-level readers and writers.
func NewIOContext(stdin io.Reader, stdout, stderr io.Writer) IOContext {
	return IOContext{
		Stdin:  NewReaderStream("stdin", stdin),
		Stdout: NewWriterStream("stdout", stdout),
		Stderr: NewWriterStream("stderr", stderr),
	}
}

// Resolve returns the concrete stream behind a proxy.
func (c IOContext) Resolve(which StdStream) *StreamValue {
	switch which {
	case Stdin:
		return c.Stdin
	case Stdout:
		return c.Stdout
	default:
		return c.Stderr
	}
}

// ResolveStream returns the concrete stream for a stream or proxy value.
func (c IOContext) ResolveStream(v Value) (*StreamValue, bool) {
	switch s := v.(type) {
	case *StreamValue:
		return s, true
	case StreamProxyValue:
		return c.Resolve(s.Which), true
	default:
		return nil, false
	}
}
