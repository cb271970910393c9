package export

import "html/template"

// rosterTemplate renders the fused roster as one report page. Entry value
// lookups go through Entry.Value so absent metrics render as empty cells.
var rosterTemplate = template.Must(template.New("roster").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Roster Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
th { background: #eee; }
tr.mismatch td { background: #fff3cd; }
td.raw { color: #777; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Roster Report</h1>
<p>Generated {{.GeneratedAt}}</p>
<table>
<tr><th>Rank</th><th>Name</th>{{range .Metrics}}<th>{{.}}</th>{{end}}<th>Read Rank</th><th>Raw</th></tr>
{{range $e := .Entries}}
<tr{{if $e.RankMismatch}} class="mismatch"{{end}}><td>{{$e.Rank}}</td><td>{{$e.Name}}</td>{{range $.Metrics}}<td>{{with $e.Value .}}{{.}}{{end}}</td>{{end}}<td>{{if $e.ReadRank}}{{$e.ReadRank}}{{end}}</td><td class="raw">{{$e.RawLine}}</td></tr>
{{end}}
</table>
</body>
</html>
`))
