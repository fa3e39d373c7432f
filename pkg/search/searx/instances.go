package searx

// Subset of the searx.space instance statistics used to pick an instance.
// See https://searx.space/data/instances.json for the full document.

type Instances struct {
	Metadata  Metadata `json:"metadata"`
	Instances map[string]Instance
}

type Metadata struct {
	Timestamp int `json:"timestamp"`
}

type Instance struct {
	NetworkType string            `json:"network_type"`
	HTTP        HTTP              `json:"http"`
	Version     string            `json:"version"`
	Timing      Timing            `json:"timing"`
	Engines     map[string]Engine `json:"engines"`
	Uptime      Uptime            `json:"uptime"`
}

type HTTP struct {
	StatusCode int    `json:"status_code"`
	Error      any    `json:"error"`
	Grade      string `json:"grade"`
}

type Stats struct {
	Median float64 `json:"median"`
	Stdev  float64 `json:"stdev"`
	Mean   float64 `json:"mean"`
}

type Search struct {
	SuccessPercentage float64 `json:"success_percentage"`
	All               Stats   `json:"all"`
	Server            Stats   `json:"server"`
	Load              Stats   `json:"load"`
}

type Timing struct {
	Search   Search `json:"search"`
	SearchGo Search `json:"search_go"`
}

type Engine struct {
	ErrorRate int   `json:"error_rate"`
	Errors    []int `json:"errors"`
}

type Uptime struct {
	UptimeDay   float64 `json:"uptimeDay"`
	UptimeWeek  float64 `json:"uptimeWeek"`
	UptimeMonth float64 `json:"uptimeMonth"`
	UptimeYear  float64 `json:"uptimeYear"`
}
