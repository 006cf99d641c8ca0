package events

// ReportDone terminates a report stream
const ReportDone = "[DONE]"

// ReportToken is one streamed fragment of an analysis report
type ReportToken struct {
	Token string `json:"token"`
}
