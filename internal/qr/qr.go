// Package qr produces and parses the badge payload printed on each child's
// QR code. The payload is plain text "<code>:<id>"; the code half is for
// humans, the id half is what the scanner looks up.
package qr

import (
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var ErrInvalidPayload = errors.New("qr: invalid payload")

func Encode(code, id string) string {
	return code + ":" + id
}

// Decode splits on the first colon and returns the id segment. No checksum
// or versioning; any "<something>:<id>" string is accepted.
func Decode(payload string) (string, error) {
	_, id, found := strings.Cut(payload, ":")
	if !found {
		return "", ErrInvalidPayload
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidPayload
	}
	return id, nil
}

// PNG renders the payload as a QR image suitable for badge printing.
func PNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
