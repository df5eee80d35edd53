package wiktionary

import "encoding/json"

// parseResponse mirrors the action=parse payload. The wikitext body sits
// under the "*" key.
type parseResponse struct {
	Parse struct {
		Title    string `json:"title"`
		Wikitext struct {
			Text string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// decodeOpenSearch unpacks the opensearch array payload:
// [query, [titles], [descriptions], [urls]].
func decodeOpenSearch(body []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, err
	}
	return titles, nil
}
