package api

import (
	"github.com/shelfgraph/shelfgraph/internal/graph"
	"github.com/shelfgraph/shelfgraph/internal/ingest"
	"github.com/shelfgraph/shelfgraph/internal/session"
)

// SessionResponse is returned by the upload and session endpoints.
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Phase     session.Phase `json:"phase"`
	Books     int           `json:"books"`
	Stats     ingest.Stats  `json:"stats"`
}

// GraphResponse carries a graph snapshot for renderers.
type GraphResponse struct {
	Nodes []NodeDTO `json:"nodes"`
	Edges []EdgeDTO `json:"edges"`
}

// NodeDTO is the wire form of a graph node.
type NodeDTO struct {
	ID        string         `json:"id"`
	Kind      graph.Kind     `json:"kind"`
	Label     string         `json:"label"`
	Ephemeral bool           `json:"ephemeral,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// EdgeDTO is the wire form of a graph edge.
type EdgeDTO struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason,omitempty"`
}

func sessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		SessionID: s.ID,
		Phase:     s.Phase(),
		Books:     len(s.Records()),
		Stats:     s.Stats(),
	}
}

func graphResponse(nodes []*graph.Node, edges []*graph.Edge) GraphResponse {
	resp := GraphResponse{
		Nodes: make([]NodeDTO, 0, len(nodes)),
		Edges: make([]EdgeDTO, 0, len(edges)),
	}
	for _, n := range nodes {
		resp.Nodes = append(resp.Nodes, NodeDTO{
			ID:        n.ID,
			Kind:      n.Kind,
			Label:     n.Label,
			Ephemeral: n.Ephemeral,
			Attrs:     n.Attrs,
		})
	}
	for _, e := range edges {
		resp.Edges = append(resp.Edges, EdgeDTO{
			From:   e.From,
			To:     e.To,
			Weight: e.Weight,
			Reason: e.Reason,
		})
	}
	return resp
}
