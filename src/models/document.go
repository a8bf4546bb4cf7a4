package models

// MChartDocument is what the Plotly adapter produces: typed series and style.
type MChartDocument struct {
	Title  string       `json:"title"`
	Series []MSeries    `json:"series"`
	Style  MRenderStyle `json:"style"`
}
