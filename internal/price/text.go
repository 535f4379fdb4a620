package price

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Text is a price as it arrives in a request body. It accepts a JSON string
// ("1.234,56") or a JSON number (1234.56).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// Decimal normalizes the text with Normalize.
func (t Text) Decimal() decimal.Decimal {
	return Normalize(string(t))
}
