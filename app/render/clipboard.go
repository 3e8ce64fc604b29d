package render

import (
	"fmt"
	"os"
	"sync"

	clipboard "golang.design/x/clipboard"
)

// Maximum clipboard size in bytes (10MB) - helps avoid X11 BadLength errors on Linux
const maxClipboardSize = 10 * 1024 * 1024

var (
	clipOnce sync.Once
	clipErr  error
)

// safeClipboardWrite attempts to write data to clipboard with panic recovery.
func safeClipboardWrite(format clipboard.Format, data []byte) (err error) {
	if len(data) > maxClipboardSize {
		return fmt.Errorf("data too large for clipboard (%d bytes, max %d bytes)", len(data), maxClipboardSize)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard write failed: %v", r)
		}
	}()

	clipboard.Write(format, data)
	return nil
}

// CopyToClipboard puts the PNG image at path on the system clipboard.
func CopyToClipboard(path string) error {
	clipOnce.Do(func() {
		clipErr = clipboard.Init()
	})
	if clipErr != nil {
		return fmt.Errorf("clipboard not available: %w", clipErr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return safeClipboardWrite(clipboard.FmtImage, data)
}
