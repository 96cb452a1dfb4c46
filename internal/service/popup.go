package service

import (
	"fmt"
	"html"
	"strings"
)

// popupExtras are the optional attributes shown in the popup, in display
// order, with their labels. Rendered only when present on the feature.
var popupExtras = []struct {
	Key   string
	Label string
}{
	{"tribal_community", "Tribal Community"},
	{"total_households", "Households"},
	{"beneficiary_households", "Beneficiary Households"},
	{"survey_number", "Survey Number"},
	{"submission_date", "Submitted"},
	{"gram_sabha", "Gram Sabha"},
	{"community", "Community"},
}

// PopupHTML renders the popup content for a feature from its normalized
// fields only; raw source properties never reach the popup.
func PopupHTML(f Feature) string {
	var b strings.Builder
	b.WriteString(`<div class="claim-popup">`)
	fmt.Fprintf(&b, `<h4>%s</h4>`, html.EscapeString(f.Category.Label()))
	popupRow(&b, "Status", f.Status.Label())
	popupRow(&b, "State", f.State)
	popupRow(&b, "District", f.District)
	popupRow(&b, "Village", f.Village)
	if f.AreaHectares > 0 {
		popupRow(&b, "Area", fmt.Sprintf("%.2f ha", f.AreaHectares))
	}
	for _, e := range popupExtras {
		v, ok := f.Extra[e.Key]
		if !ok || v == nil {
			continue
		}
		popupRow(&b, e.Label, fmt.Sprint(v))
	}
	fmt.Fprintf(&b, `<small>%s</small>`, html.EscapeString(f.ID))
	b.WriteString(`</div>`)
	return b.String()
}

func popupRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, `<div><span>%s</span> %s</div>`,
		html.EscapeString(label), html.EscapeString(value))
}
