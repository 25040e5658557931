package api

import (
	"net/http"
	"strconv"

	"github.com/shelfgraph/shelfgraph/internal/graph"
	"github.com/shelfgraph/shelfgraph/internal/http/response"
)

// defaultNeighborhoodDepth bounds the BFS when no depth is given.
const defaultNeighborhoodDepth = 2

// handleGetGraph returns the session's full canonical graph.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	g := sess.Graph()
	response.Success(w, graphResponse(g.Nodes(), g.Edges()), s.logger)
}

// handleGetNeighborhood returns the subgraph around a node. Query
// params: "node" (required node id), "depth" (hops, default 2).
func (s *Server) handleGetNeighborhood(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	nodeID := r.URL.Query().Get("node")
	if nodeID == "" {
		response.BadRequest(w, "missing node parameter", s.logger)
		return
	}
	depth := defaultNeighborhoodDepth
	if depthParam := r.URL.Query().Get("depth"); depthParam != "" {
		d, err := strconv.Atoi(depthParam)
		if err != nil || d < 0 {
			response.BadRequest(w, "invalid depth parameter", s.logger)
			return
		}
		depth = d
	}

	g := sess.Graph()
	if !g.HasNode(nodeID) {
		response.NotFound(w, "node not in graph", s.logger)
		return
	}
	nodes, edges := g.Neighborhood(nodeID, depth)
	response.Success(w, graphResponse(nodes, edges), s.logger)
}

// handleGetRecommendations suggests unread books around a focus book.
// The "book" query param takes either the record id "Title::Author" or
// a full "book::" node id.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	book := r.URL.Query().Get("book")
	if book == "" {
		response.BadRequest(w, "missing book parameter", s.logger)
		return
	}
	focusID := book
	if sess.Graph().Node(focusID) == nil {
		focusID = graph.NodeID(graph.KindBook, book)
	}

	out, err := s.recommender.Recommend(r.Context(), sess.Graph(), focusID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, graphResponse(out.Nodes(), out.Edges()), s.logger)
}
