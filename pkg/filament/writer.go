package filament

import "io"

// Compile-time interface checks
var (
	_ io.Writer       = (*Buffer)(nil)
	_ io.StringWriter = (*Buffer)(nil)
	_ io.ByteWriter   = (*Buffer)(nil)
)

// Write implements io.Writer over Append, so a Buffer drops straight
// into fmt.Fprintf, io.Copy and template execution.
//
// Unlike most io.Writer implementations a failed Write writes
// nothing: the append contract forbids partial mutation, so on error
// n is 0 and the content is unchanged.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter, with the same
// all-or-nothing semantics as Write.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.AppendString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	return b.AppendByte(c)
}
