package frame

import (
	"fmt"
	"io"
)

// WriteCArray renders an encoded framebuffer as C source, a named constant
// byte array suitable for embedding directly in firmware. It is purely an
// alternate formatting of the same bytes; the leading comment records the
// pixel dimensions the firmware must assume.
func WriteCArray(w io.Writer, buf []byte, res Resolution) error {
	if _, err := fmt.Fprintf(w, "// 7 Color Image Data %d*%d\n", res.W, res.H); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "const unsigned char Image7color[%d] = {\n", len(buf)); err != nil {
		return err
	}

	for i, b := range buf {
		if i > 0 && i%16 == 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "0x%02X,", b); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n};\n")
	return err
}
