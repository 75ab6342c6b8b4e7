package output

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/couchcryptid/levee-files/internal/domain"
)

const tableHeader = "<table class=\"levees datatable\">\n" +
	"\t<thead>\n" +
	"\t\t<tr>\n" +
	"\t\t\t<th class=\"levee_name\">Organization</th>\n" +
	"\t\t\t<th class=\"levee_location\">Location</th>\n" +
	"\t\t\t<th class=\"levee_start\">Starts</th>\n" +
	"\t\t\t<th class=\"levee_end\">Ends</th>\n" +
	"\t\t\t<th class=\"levee_accessible\">♿<span class=\"levee_accessible_title\"> Accessible</span></th>\n" +
	"\t\t\t<th class=\"levee_all_ages\">All Ages</th>\n" +
	"\t\t</tr>\n" +
	"\t</thead>\n" +
	"\t<tbody>\n"

const tableFooter = "\t</tbody>\n</table>\n"

var rowTemplate = template.Must(template.New("row").Funcs(template.FuncMap{
	"join":  strings.Join,
	"yesno": yesNo,
}).Parse("\t\t<tr class=\"{{join .Classes \" \"}}\">\n" +
	"\t\t\t<td class=\"levee_name\"><a href=\"{{.Permalink}}\">{{.Name}}</a>{{if .Cancelled}} <span class=\"levee_cancelled\">(Cancelled)</span>{{end}}</td>\n" +
	"\t\t\t<td class=\"levee_location\">{{.LocationName}}<br>{{.Address}}</td>\n" +
	"\t\t\t<td class=\"levee_start\">{{.Start}}</td>\n" +
	"\t\t\t<td class=\"levee_end\">{{.End}}</td>\n" +
	"\t\t\t<td class=\"levee_accessible\">{{yesno .Accessible}}</td>\n" +
	"\t\t\t<td class=\"levee_all_ages\">{{yesno .AllAges}}</td>\n" +
	"\t\t</tr>\n"))

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Page holds the static fragments a listing can be wrapped in. They are
// written verbatim.
type Page struct {
	Preamble   []byte
	Midsection []byte
	Closing    []byte
}

// HTMLListing renders one table row per levee, cancelled ones included.
type HTMLListing struct {
	lifecycle
	page *Page
	rows [][]byte
}

// NewHTMLListing returns an open listing. A nil page emits the bare table.
func NewHTMLListing(name string, page *Page) *HTMLListing {
	return &HTMLListing{lifecycle: lifecycle{kind: "html", name: name}, page: page}
}

// Append renders a row fragment in arrival order.
func (h *HTMLListing) Append(row domain.HTMLRow) error {
	h.mustBeOpen("Append")
	var buf bytes.Buffer
	if err := rowTemplate.Execute(&buf, row); err != nil {
		return fmt.Errorf("render row %q: %w", row.Name, err)
	}
	h.rows = append(h.rows, buf.Bytes())
	return nil
}

// Len returns the number of rendered rows.
func (h *HTMLListing) Len() int { return len(h.rows) }

// Finalize concatenates header, rows and footer. When a page is set the
// table is placed after the preamble, the structured data and the midsection.
func (h *HTMLListing) Finalize(structuredData []byte) {
	h.mustBeOpen("Finalize")
	var buf bytes.Buffer
	if h.page != nil {
		buf.Write(h.page.Preamble)
		if len(structuredData) > 0 {
			buf.WriteString("<script type=\"application/ld+json\">\n")
			buf.Write(bytes.TrimRight(structuredData, "\n"))
			buf.WriteString("\n</script>\n")
		}
		buf.Write(h.page.Midsection)
	}
	buf.WriteString(tableHeader)
	for _, row := range h.rows {
		buf.Write(row)
	}
	buf.WriteString(tableFooter)
	if h.page != nil {
		buf.Write(h.page.Closing)
	}
	h.seal(buf.Bytes())
}

// ContentType returns the HTML media type.
func (h *HTMLListing) ContentType() string { return "text/html; charset=utf-8" }
