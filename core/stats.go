package core

import (
	"encoding/json"
	"fmt"

	"github.com/searchktools/mock-server/core/pools"
)

// Stats is a snapshot of server activity
type Stats struct {
	ConnectionsAccepted uint64               `json:"connections_accepted"`
	RequestsReceived    uint64               `json:"requests_received"`
	ResponsesWritten    uint64               `json:"responses_written"`
	ConnectionErrors    int                  `json:"connection_errors"`
	PendingResponses    int                  `json:"pending_responses"`
	PendingRequests     int                  `json:"pending_requests"`
	Buffers             pools.BufioPoolStats `json:"buffers"`
}

// Stats returns activity counters
func (s *Server) Stats() Stats {
	responses, requests := s.journal.pending()
	return Stats{
		ConnectionsAccepted: s.accepted.Load(),
		RequestsReceived:    s.received.Load(),
		ResponsesWritten:    s.responded.Load(),
		ConnectionErrors:    len(s.journal.errors()),
		PendingResponses:    responses,
		PendingRequests:     requests,
		Buffers:             s.buffers.Stats(),
	}
}

// StatsJSON returns the stats as indented JSON
func (s *Server) StatsJSON() string {
	data, _ := json.MarshalIndent(s.Stats(), "", "  ")
	return string(data)
}

// StatsText returns the stats as human-readable text
func (s *Server) StatsText() string {
	st := s.Stats()
	return fmt.Sprintf(`Mock Server Statistics
======================

Connections accepted: %d
Requests received:    %d
Responses written:    %d
Connection errors:    %d

Pending responses:    %d
Unread requests:      %d
`,
		st.ConnectionsAccepted, st.RequestsReceived, st.ResponsesWritten, st.ConnectionErrors,
		st.PendingResponses, st.PendingRequests,
	)
}
