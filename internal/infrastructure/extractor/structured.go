package extractor

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var jsonTextFields = []string{"text", "content", "message", "review", "comment"}

const minObjectValueLength = 11

// parseCSV skips the header row and keeps the first column of every record.
func parseCSV(raw []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var texts []string
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if row == 0 || len(record) == 0 {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(record[0], `"`, ""))
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// parseJSON accepts an array of strings or objects, or a single object whose
// long string values become items in key order.
func parseJSON(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("invalid JSON format")
	}

	switch trimmed[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("invalid JSON format: %w", err)
		}
		texts := make([]string, 0, len(entries))
		for _, entry := range entries {
			if text := jsonEntryText(entry); text != "" {
				texts = append(texts, text)
			}
		}
		return texts, nil
	case '{':
		return objectStringValues(trimmed)
	default:
		if !json.Valid(trimmed) {
			return nil, errors.New("invalid JSON format")
		}
		return []string{}, nil
	}
}

func jsonEntryText(entry json.RawMessage) string {
	var text string
	if err := json.Unmarshal(entry, &text); err == nil {
		return text
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(entry, &object); err == nil && object != nil {
		for _, field := range jsonTextFields {
			var value string
			if raw, ok := object[field]; ok && json.Unmarshal(raw, &value) == nil && value != "" {
				return value
			}
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, entry); err != nil {
		return string(entry)
	}
	return compact.String()
}

func objectStringValues(raw []byte) ([]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	var texts []string
	for decoder.More() {
		if _, err := decoder.Token(); err != nil {
			return nil, fmt.Errorf("invalid JSON format: %w", err)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON format: %w", err)
		}
		var text string
		if json.Unmarshal(value, &text) == nil && utf8.RuneCountInString(text) >= minObjectValueLength {
			texts = append(texts, text)
		}
	}
	return texts, nil
}
