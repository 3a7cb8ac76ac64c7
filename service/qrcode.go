package service

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the pixel width of generated verification codes.
const qrSize = 400

// EncodeQR renders a verification URL as a PNG QR code. Encoding is
// deterministic: the same URL always yields the same image.
func EncodeQR(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// QRDataURI renders a verification URL as an embeddable data URI.
func QRDataURI(url string) (string, error) {
	png, err := EncodeQR(url)
	if err != nil {
		return "", err
	}
	return PNGDataURI(png), nil
}
