package mail

import "html/template"

type AlertEmailData struct {
	Title       string
	Description string
	Actor       string
	At          string
}

var alertTemplate = template.Must(template.New("alert").Parse(`<h2>{{.Title}}</h2>
<p>{{.Description}}</p>
<p style="color:#888">{{.At}}{{if .Actor}} · {{.Actor}}{{end}}</p>
`))
