package model

// ChannelList is the on-disk shape of both the catalog handed to the prober
// and the accepted list handed to the page renderer.
type ChannelList struct {
	// Channels is an ordered sequence of URLs.
	Channels []string `json:"channels"`
}

// NewChannelList wraps urls. A nil slice is stored as an empty one so that
// the file always contains "channels": [] rather than null.
func NewChannelList(urls []string) *ChannelList {
	if urls == nil {
		urls = []string{}
	}
	return &ChannelList{Channels: urls}
}

// ReportFile is the on-disk shape of the probe report collection.
type ReportFile struct {
	// Results holds one report per candidate, in candidate order.
	Results []ProbeReport `json:"results"`
}

// NewReportFile wraps reports, normalizing nil to an empty slice.
func NewReportFile(reports []ProbeReport) *ReportFile {
	if reports == nil {
		reports = []ProbeReport{}
	}
	return &ReportFile{Results: reports}
}
