package codec

import "fmt"

// DecodeError reports a failure to read an image: unsupported format,
// corrupt bytes, or an unreadable file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports a failure to write an image: unsupported format,
// bad parameters, or an unwritable destination.
type EncodeError struct {
	Format Format
	Path   string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("encode %s as %s: %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
