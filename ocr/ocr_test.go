//go:build ocr

package ocr

import "testing"

func TestNewAndClose(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer c.Close()

	if err := c.SetLanguage("eng"); err != nil {
		t.Errorf("SetLanguage failed: %v", err)
	}
}
