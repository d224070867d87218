// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

// pageTemplate is the only markup the generator emits. Every element is
// absolutely positioned in frame pixels; the page has no scripts and loads
// nothing but the slide's own images.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
{{.Fonts}}
html,body{margin:0;padding:0;width:{{.Width}}px;height:{{.Height}}px;overflow:hidden;background:{{.Background}}}
.l{position:absolute;box-sizing:border-box;margin:0;padding:0}
</style>
</head>
<body>
{{- range .Elements}}
{{- if eq .Kind "box"}}
<div class="l" style="{{.Style}}"></div>
{{- else if eq .Kind "image"}}
<div class="l" style="{{.Style}}"><img src="{{.Src}}" style="{{.ImgStyle}}" alt=""></div>
{{- if .Ring}}
<div class="l" style="{{.RingStyle}}"></div>
{{- end}}
{{- else if eq .Kind "stroke"}}
<svg class="l" style="left:0;top:0" width="{{$.Width}}" height="{{$.Height}}" viewBox="0 0 {{$.Width}} {{$.Height}}"><path d="{{.D}}" fill="none" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"{{if .Dash}} stroke-dasharray="{{.Dash}}"{{end}}/></svg>
{{- else if eq .Kind "text"}}
<div class="l t" style="{{.Style}}">{{range .Spans}}<span style="{{.Style}}">{{.Text}}</span>{{end}}</div>
{{- end}}
{{- end}}
</body>
</html>
`
