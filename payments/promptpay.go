package payments

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// EMVCo field ids for a PromptPay payload.
const (
	idPayloadFormat       = "00"
	idPointOfInitiation   = "01"
	idMerchantInfo        = "29"
	idTransactionCurrency = "53"
	idTransactionAmount   = "54"
	idCountryCode         = "58"
	idCRC                 = "63"

	merchantAID      = "A000000677010111"
	currencyTHB      = "764"
	countryTH        = "TH"
	initiationAmount = "12" // dynamic: payload carries an amount
)

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// formatTarget normalizes a PromptPay target: phone numbers become the
// 13-digit 0066-prefixed form; 13-digit national ids pass through.
func formatTarget(target string) string {
	var digits strings.Builder
	for _, r := range target {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) >= 13 {
		return d
	}
	d = strings.TrimPrefix(d, "0")
	d = "66" + d
	for len(d) < 13 {
		d = "0" + d
	}
	return d
}

func targetFieldID(target string) string {
	// 13 raw digits means a national id, anything shorter a phone number
	if len(target) >= 13 {
		return "02"
	}
	return "01"
}

// BuildPromptPayPayload builds the scan-to-pay payload for the merchant
// target and amount, per the EMVCo merchant-presented QR layout.
func BuildPromptPayPayload(target string, amount float64) string {
	sanitized := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, target)

	merchant := tlv("00", merchantAID) + tlv(targetFieldID(sanitized), formatTarget(sanitized))

	payload := tlv(idPayloadFormat, "01") +
		tlv(idPointOfInitiation, initiationAmount) +
		tlv(idMerchantInfo, merchant) +
		tlv(idTransactionCurrency, currencyTHB) +
		tlv(idTransactionAmount, fmt.Sprintf("%.2f", amount)) +
		tlv(idCountryCode, countryTH)

	payload += idCRC + "04"
	return payload + crc16Hex(payload)
}

// crc16Hex computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) of the
// payload, uppercase hex.
func crc16Hex(s string) string {
	crc := uint16(0xFFFF)
	for _, b := range []byte(s) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

// RenderQR encodes a payload into a displayable PNG data URI.
func RenderQR(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
