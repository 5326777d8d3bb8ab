package types

import "time"

// Job is a periodic gas price fetch for one token
type Job struct {
	Token    string        // token whose gas price is fed
	URL      string        // endpoint returning JSON
	Path     string        // gjson path of the price inside the response
	Interval time.Duration // wait between two fetches
	Nonce    uint64        // number of completed fetches
}

// JobResult is a fetched price ready to be submitted
type JobResult struct {
	Token string
	Value string // decimal string, at most 18 fractional digits
	Nonce uint64
}
