package domain

type ResolverSource string

const (
	ResolverDirect   ResolverSource = "direct"
	ResolverPrimary  ResolverSource = "primary"
	ResolverFallback ResolverSource = "fallback"
	ResolverNone     ResolverSource = "none"
)

// ResolvedHost is the outcome of a resolver chain walk. IP is empty iff
// every provider came up dry.
type ResolvedHost struct {
	IP     string         `json:"ip,omitempty"`
	Source ResolverSource `json:"resolver"`
}

type EngineResult struct {
	Engine   string `json:"engine"`
	Category string `json:"category"`
	Result   string `json:"result,omitempty"`
}

type ReputationVerdict struct {
	Flagged       bool              `json:"flagged"`
	Malicious     int               `json:"malicious"`
	Suspicious    int               `json:"suspicious"`
	Harmless      int               `json:"harmless"`
	Undetected    int               `json:"undetected"`
	Total         int               `json:"total"`
	Status        ReputationStatus  `json:"status"`
	Message       string            `json:"message,omitempty"`
	Reputation    int               `json:"reputation,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Categories    map[string]string `json:"categories,omitempty"`
	EngineResults []EngineResult    `json:"engineResults,omitempty"`
	ScanDate      int64             `json:"scanDate,omitempty"`
	FirstSeen     int64             `json:"firstSeen,omitempty"`
	LastSeen      int64             `json:"lastSeen,omitempty"`
}

// HostIntel is always a complete record; a failed lookup yields an error,
// never a partially populated value.
type HostIntel struct {
	IP         string         `json:"ip"`
	Resolver   ResolverSource `json:"resolver"`
	Org        string         `json:"org,omitempty"`
	ISP        string         `json:"isp,omitempty"`
	Country    string         `json:"country,omitempty"`
	City       string         `json:"city,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	OpenPorts  []int          `json:"openPorts,omitempty"`
	Hostnames  []string       `json:"hostnames,omitempty"`
	Vulns      []string       `json:"vulns,omitempty"`
	LastUpdate string         `json:"lastUpdate,omitempty"`
}

// RateBudget tracks requests spent against a provider's daily quota.
// Day is a UTC date string; a mismatch with today's date resets the count.
type RateBudget struct {
	Count int    `json:"count"`
	Day   string `json:"day"`
}

type VerdictRecord struct {
	URL              string            `json:"url"`
	HeuristicScore   int               `json:"heuristicScore"`
	Reputation       ReputationVerdict `json:"reputation"`
	SafeBrowsingFlag int               `json:"safeBrowsingFlag"`
	HostIntel        *HostIntel        `json:"hostIntel,omitempty"`
	FinalScore       int               `json:"finalScore"`
	Status           VerdictStatus     `json:"status"`
	ScannedAt        string            `json:"scannedAt"`
}
