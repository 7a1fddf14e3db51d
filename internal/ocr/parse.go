package ocr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// rawDraft is the model's reply. Amounts arrive as numbers or strings.
type rawDraft struct {
	Date    string          `json:"date"`
	Names   json.RawMessage `json:"names"`
	Total   json.RawMessage `json:"total"`
	Set     json.RawMessage `json:"set"`
	MineIce json.RawMessage `json:"mine_ice"`
}

// parseReply pulls the outermost JSON object out of text.
func parseReply(text string) (rawDraft, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return rawDraft{}, fmt.Errorf("no json object in reply")
	}
	var raw rawDraft
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return rawDraft{}, fmt.Errorf("decode reply: %w", err)
	}
	return raw, nil
}

// names accepts a list or a single string.
func (r rawDraft) names() []string {
	var list []string
	if err := json.Unmarshal(r.Names, &list); err != nil {
		var one string
		if err := json.Unmarshal(r.Names, &one); err != nil {
			return nil
		}
		list = []string{one}
	}

	out := make([]string, 0, 3)
	for _, n := range list {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

// digits reads an amount written as a number or as text such as "¥15,000".
func digits(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(int64(n), 10)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func amount(raw json.RawMessage) int64 {
	v, err := strconv.ParseInt(digits(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
