// Package qrcode generates QR code images for gateway payment URLs so the
// checkout notification email can carry a scannable payment link.
package qrcode
