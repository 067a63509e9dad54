package registry

import (
	"fmt"
	"os"
)

// Append adds name as a new line at the end of the file at path, creating
// the file when it does not exist. The line is written with a single write
// on an O_APPEND descriptor so prior content is never rewritten.
func Append(path, name string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open registry for append: %w", err)
	}
	if _, err := file.Write([]byte(name + "\n")); err != nil {
		_ = file.Close()
		return fmt.Errorf("append to registry: %w", err)
	}
	return file.Close()
}
