package ocr

// NameMatch pairs a name read from the slip with the roster entry it
// matched. Cast is empty when nothing matched.
type NameMatch struct {
	Read string `json:"read"`
	Cast string `json:"cast"`
}

// SlipDraft pre-fills the slip form. It is never stored.
type SlipDraft struct {
	Date    string      `json:"date"`
	Names   []NameMatch `json:"names"`
	Total   int64       `json:"total"`
	SetInfo string      `json:"set"`
	MineIce string      `json:"mine_ice"`
}
