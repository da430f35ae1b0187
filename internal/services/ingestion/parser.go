package ingestion

import (
	"bytes"
	"encoding/csv"
	"io"

	"grain-management-backend/internal/normalize"
)

// FileData is a parsed equipment export: the leading key/value metadata block
// and the tabular load records keyed by header name.
type FileData struct {
	Meta  map[string]string
	Loads []map[string]string
}

// Metadata is the validated header block every file must carry before any of
// its loads are ingested.
type Metadata struct {
	JobNumber int
	Grower    string
	Farm      string
	Field     string
	Crop      string
	Year      string
}

// ParseLoadFile splits a .grc export into metadata and load records.
//
// Layout: metadata rows (first cell non-empty, "key,value"), then one units
// row (first empty cell ends the metadata block; the row is discarded), then
// the header row, then data rows. Data rows with an empty first cell are
// skipped; short rows pad missing trailing cells with "".
func ParseLoadFile(r io.Reader) (*FileData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, validationErrorf("unreadable file: %v", err)
	}
	// exports occasionally carry stray bytes; drop anything that is not UTF-8
	raw = bytes.ToValidUTF8(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, validationErrorf("malformed delimited text: %v", err)
	}

	meta := map[string]string{}
	i := 0
	for i < len(rows) && len(rows[i]) > 0 && normalize.CleanText(rows[i][0]) != "" {
		value := ""
		if len(rows[i]) > 1 {
			value = normalize.CleanText(rows[i][1])
		}
		meta[normalize.CleanText(rows[i][0])] = value
		i++
	}

	// rows[i] is the units row; the header follows it
	if i+1 >= len(rows) {
		return nil, validationErrorf("file ends before header row")
	}
	header := rows[i+1]

	var loads []map[string]string
	for _, row := range rows[i+2:] {
		if len(row) == 0 || normalize.CleanText(row[0]) == "" {
			continue
		}
		rec := make(map[string]string, len(header))
		for idx, name := range header {
			if idx < len(row) {
				rec[normalize.CleanText(name)] = row[idx]
			} else {
				rec[normalize.CleanText(name)] = ""
			}
		}
		loads = append(loads, rec)
	}

	return &FileData{Meta: meta, Loads: loads}, nil
}

// ExtractMetadata validates the required metadata keys. A missing key rejects
// the whole file, not the batch.
func ExtractMetadata(meta map[string]string) (*Metadata, error) {
	job := normalize.ParseInteger(meta["JobNumber"])
	if job == nil {
		return nil, validationErrorf("missing or non-numeric JobNumber")
	}

	m := &Metadata{
		JobNumber: *job,
		Grower:    normalize.CleanText(meta["Grower"]),
		Farm:      normalize.CleanText(meta["Farm"]),
		Field:     normalize.CleanText(meta["Field"]),
		Crop:      normalize.CleanText(meta["Crop"]),
		Year:      normalize.CleanText(meta["Year"]),
	}
	switch {
	case m.Grower == "":
		return nil, validationErrorf("missing Grower")
	case m.Farm == "":
		return nil, validationErrorf("missing Farm")
	case m.Field == "":
		return nil, validationErrorf("missing Field")
	case m.Crop == "":
		return nil, validationErrorf("missing Crop")
	case m.Year == "":
		return nil, validationErrorf("missing Year")
	}
	return m, nil
}
