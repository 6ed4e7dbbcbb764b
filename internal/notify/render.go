package notify

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/halcyonweb/backoffice/internal/domain"
)

// longValueThreshold is the scalar length past which a field renders as a
// scrollable block instead of an inline cell.
const longValueThreshold = 200

const notProvided = "Not provided"

// RenderAdminNotification builds the staff copy of a submission: every
// payload field as a labeled row plus the envelope metadata.
func RenderAdminNotification(sub *domain.FormSubmission) (subject, text, htmlBody string) {
	subject = fmt.Sprintf("New %q form submission", sub.FormName)

	keys := make([]string, 0, len(sub.Data))
	for k := range sub.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tb strings.Builder
	fmt.Fprintf(&tb, "New submission from the %q form\n\n", sub.FormName)
	for _, k := range keys {
		fmt.Fprintf(&tb, "%s: %s\n", labelFor(k), textValue(sub.Data[k]))
	}
	fmt.Fprintf(&tb, "\n--\nForm: %s\nReceived: %s\n", sub.FormName, sub.CreatedAt.Format("Jan 2, 2006 15:04 MST"))
	fmt.Fprintf(&tb, "Email: %s\nPhone: %s\nSource: %s\n",
		orNotProvided(sub.Email), orNotProvided(sub.Phone), orNotProvided(sub.Source))
	text = tb.String()

	var hb strings.Builder
	fmt.Fprintf(&hb, `<h2>New submission from the %s form</h2>`, html.EscapeString(sub.FormName))
	hb.WriteString(`<table cellpadding="6" cellspacing="0" border="0" style="border-collapse:collapse">`)
	for _, k := range keys {
		fmt.Fprintf(&hb,
			`<tr><td style="font-weight:bold;vertical-align:top;border-bottom:1px solid #eee">%s</td>`+
				`<td style="border-bottom:1px solid #eee">%s</td></tr>`,
			html.EscapeString(labelFor(k)), htmlValue(k, sub.Data[k]))
	}
	hb.WriteString(`</table>`)
	fmt.Fprintf(&hb, `<p style="color:#888;font-size:12px">Form: %s &middot; Received: %s<br>Email: %s &middot; Phone: %s &middot; Source: %s</p>`,
		html.EscapeString(sub.FormName),
		sub.CreatedAt.Format("Jan 2, 2006 15:04 MST"),
		html.EscapeString(orNotProvided(sub.Email)),
		html.EscapeString(orNotProvided(sub.Phone)),
		html.EscapeString(orNotProvided(sub.Source)))
	htmlBody = hb.String()

	return subject, text, htmlBody
}

// RenderAutoReply builds the confirmation sent to the submitter.
func RenderAutoReply(sub *domain.FormSubmission, siteName string) (subject, text, htmlBody string) {
	name := GreetingName(sub)
	subject = fmt.Sprintf("Thanks for reaching out to %s", siteName)

	text = fmt.Sprintf(
		"Hi %s,\n\nThanks for getting in touch. We received your message and will get back to you as soon as we can.\n\n%s\n",
		name, siteName)

	htmlBody = fmt.Sprintf(
		`<p>Hi %s,</p><p>Thanks for getting in touch. We received your message and will get back to you as soon as we can.</p><p>%s</p>`,
		html.EscapeString(name), html.EscapeString(siteName))

	return subject, text, htmlBody
}

// GreetingName picks a display name for the auto-reply: a firstName field,
// then a name field, then the local part of the contact email.
func GreetingName(sub *domain.FormSubmission) string {
	for _, key := range []string{"firstName", "name"} {
		if v, ok := sub.Data[key]; ok && v.Kind() == domain.KindString && !v.IsZero() {
			return strings.TrimSpace(v.String())
		}
	}
	if at := strings.Index(sub.Email, "@"); at > 0 {
		return sub.Email[:at]
	}
	return "there"
}

func textValue(v domain.Value) string {
	switch {
	case v.IsZero():
		return notProvided
	case v.Kind() == domain.KindBool:
		if v.BoolValue() {
			return "Yes"
		}
		return "No"
	case v.Kind() == domain.KindObject, v.Kind() == domain.KindArray:
		return "\n" + indent(v.Dump(), "  ")
	default:
		return v.String()
	}
}

func htmlValue(key string, v domain.Value) string {
	if v.IsZero() {
		return `<em style="color:#999">` + notProvided + `</em>`
	}

	switch v.Kind() {
	case domain.KindBool:
		if v.BoolValue() {
			return "Yes"
		}
		return "No"
	case domain.KindObject, domain.KindArray:
		return `<pre style="background:#f6f6f6;padding:8px;margin:0;white-space:pre-wrap">` +
			html.EscapeString(v.Dump()) + `</pre>`
	}

	s := v.String()
	escaped := html.EscapeString(s)
	lower := strings.ToLower(key)

	switch {
	case strings.Contains(lower, "url"):
		return fmt.Sprintf(`<a href="%s">%s</a>`, escaped, escaped)
	case strings.Contains(lower, "email"):
		return fmt.Sprintf(`<a href="mailto:%s">%s</a>`, escaped, escaped)
	case strings.Contains(lower, "phone"):
		return fmt.Sprintf(`<a href="tel:%s">%s</a>`, escaped, escaped)
	case len(s) > longValueThreshold:
		return `<div style="max-height:160px;overflow-y:auto;background:#f6f6f6;padding:8px;white-space:pre-wrap">` +
			escaped + `</div>`
	default:
		return escaped
	}
}

// labelFor turns a field key into a readable label: "firstName" and
// "first_name" both become "First Name".
func labelFor(key string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
			b.WriteRune(r)
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
