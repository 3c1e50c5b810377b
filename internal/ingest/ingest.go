// Package ingest loads lead batches from CSV, JSON, and XLSX files and
// normalizes the varied column headers exported by CRM tools.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-cli/internal/model"
)

// headerAliases maps the column names seen in the wild onto canonical
// lead fields. Matching is case-insensitive after trimming.
var headerAliases = map[string]string{
	"email":         "email",
	"email_address": "email",
	"e-mail":        "email",
	"phone":         "phone",
	"phone_number":  "phone",
	"mobile":        "phone",
	"contact":       "contact_name",
	"contact_name":  "contact_name",
	"owner":         "contact_name",
	"business":      "business_name",
	"business_name": "business_name",
	"company":       "business_name",
	"name":          "business_name",
	"industry":      "industry",
	"category":      "industry",
	"rating":        "rating",
	"review_count":  "review_count",
	"reviews":       "review_count",
	"website":       "website",
	"url":           "website",
	"pain_points":   "pain_points",
}

// LoadFile loads leads from path, dispatching on the file extension.
// Supported: .csv, .json, .xlsx.
func LoadFile(path string) ([]model.Lead, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open csv")
		}
		defer f.Close()
		return LoadCSV(f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open json")
		}
		defer f.Close()
		return LoadJSON(f)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadCSV parses leads from a CSV stream. The first row is the header;
// unrecognized columns are ignored.
func LoadCSV(r io.Reader) ([]model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}
	cols := mapHeader(header)

	var leads []model.Lead
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		if lead, ok := leadFromRow(cols, record); ok {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

// LoadJSON parses leads from a JSON array of lead objects. JSON files may
// carry the full lead shape, including the nested website profile.
func LoadJSON(r io.Reader) ([]model.Lead, error) {
	var leads []model.Lead
	if err := json.NewDecoder(r).Decode(&leads); err != nil {
		return nil, eris.Wrap(err, "ingest: parse json")
	}
	return leads, nil
}

// LoadXLSX parses leads from the first sheet of an XLSX workbook.
func LoadXLSX(path string) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	cols := mapHeader(rowToStrings(sheet.Rows[0]))

	var leads []model.Lead
	for _, row := range sheet.Rows[1:] {
		if lead, ok := leadFromRow(cols, rowToStrings(row)); ok {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

// mapHeader resolves a header row to a canonical-field -> column-index map.
func mapHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := headerAliases[key]; ok {
			if _, taken := cols[canonical]; !taken {
				cols[canonical] = i
			}
		}
	}
	return cols
}

// leadFromRow builds a lead from one data row. Rows with neither an email
// nor a business name are skipped.
func leadFromRow(cols map[string]int, record []string) (model.Lead, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	lead := model.Lead{
		Email:        field("email"),
		Phone:        field("phone"),
		ContactName:  field("contact_name"),
		BusinessName: field("business_name"),
		Industry:     field("industry"),
	}
	if lead.Email == "" && lead.BusinessName == "" {
		return model.Lead{}, false
	}

	if v := field("rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			lead.Rating = rating
		}
	}
	if v := field("review_count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			lead.ReviewCount = n
		}
	}
	if v := field("website"); v != "" {
		lead.Website = &model.WebsiteProfile{HasWebsite: true}
	}
	if v := field("pain_points"); v != "" {
		for _, p := range strings.Split(v, ";") {
			if p = strings.TrimSpace(p); p != "" {
				lead.PainPoints = append(lead.PainPoints, p)
			}
		}
	}
	return lead, true
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
