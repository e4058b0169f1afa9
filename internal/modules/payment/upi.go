package payment

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// NewIntent builds a UPI intent for amount rupees payable to vpa.
func NewIntent(vpa, payeeName string, amount int64, note string) *Intent {
	in := &Intent{VPA: vpa, PayeeName: payeeName, Amount: amount, Note: note}
	in.URI = in.uri()
	return in
}

func (in *Intent) uri() string {
	q := []string{
		"pa=" + url.QueryEscape(in.VPA),
		"pn=" + url.QueryEscape(in.PayeeName),
		fmt.Sprintf("am=%d.00", in.Amount),
		"cu=INR",
	}
	if in.Note != "" {
		q = append(q, "tn="+url.QueryEscape(in.Note))
	}
	return "upi://pay?" + strings.Join(q, "&")
}

// QRCode renders the intent URI as a size x size PNG.
func QRCode(in *Intent, size int) ([]byte, error) {
	png, err := qrcode.Encode(in.URI, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode upi qr: %w", err)
	}
	return png, nil
}
