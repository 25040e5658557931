package graph

import (
	"slices"
	"testing"

	"github.com/shelfgraph/shelfgraph/internal/domain"
)

func record(title, author string, rating int) *domain.BookRecord {
	return domain.NewBookRecord(title, author, rating)
}

func TestAuthorWeight(t *testing.T) {
	tests := []struct {
		rating int
		want   float64
	}{
		{1, 0.8},
		{2, 0.9},
		{3, 1.0},
		{4, 1.1},
		{5, 1.2},
		{9, 1.2}, // capped
	}
	for _, tt := range tests {
		if got := authorWeight(tt.rating); got != tt.want {
			t.Errorf("authorWeight(%d) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestBuild_Basic(t *testing.T) {
	rec := record("Dune", "Frank Herbert", 5)
	rec.Subjects = []string{"Science Fiction", "Ecology"}
	rec.AwardSlugs = []string{"hugo_award"}
	rec.FirstPublishYear = 1965

	g := Build([]*domain.BookRecord{rec})

	bookID := NodeID(KindBook, rec.ID)
	if !g.HasNode(bookID) {
		t.Fatalf("missing book node %q", bookID)
	}

	authorID := AuthorNodeID("Frank Herbert")
	e := g.Edge(bookID, authorID)
	if e == nil {
		t.Fatal("missing author edge")
	}
	if e.Weight != 1.2 {
		t.Errorf("author edge weight = %v, want 1.2", e.Weight)
	}

	if e := g.Edge(bookID, SubjectNodeID("Science Fiction")); e == nil || e.Weight != 0.8 {
		t.Errorf("subject edge = %+v", e)
	}
	if e := g.Edge(bookID, NodeID(KindAward, "hugo_award")); e == nil || e.Weight != 0.7 {
		t.Errorf("award edge = %+v", e)
	}
	if e := g.Edge(bookID, NodeID(KindEra, "1960s")); e == nil || e.Weight != 0.5 {
		t.Errorf("era edge = %+v", e)
	}
}

func TestBuild_UnratedIsNeutral(t *testing.T) {
	rec := record("Solaris", "Stanislaw Lem", 0)
	g := Build([]*domain.BookRecord{rec})

	e := g.Edge(NodeID(KindBook, rec.ID), AuthorNodeID("Stanislaw Lem"))
	if e == nil || e.Weight != 1.0 {
		t.Errorf("unrated author edge = %+v, want weight 1.0", e)
	}
}

func TestBuild_SharedEntities(t *testing.T) {
	a := record("Dune", "Frank Herbert", 4)
	a.Subjects = []string{"Science Fiction"}
	b := record("Dune Messiah", "Frank Herbert", 3)
	b.Subjects = []string{"Science Fiction"}

	g := Build([]*domain.BookRecord{a, b})

	if got := len(g.NodesOfKind(KindAuthor)); got != 1 {
		t.Errorf("author nodes = %d, want 1", got)
	}
	if got := len(g.NodesOfKind(KindSubject)); got != 1 {
		t.Errorf("subject nodes = %d, want 1", got)
	}

	// Both books reach each other through the shared author.
	authorID := AuthorNodeID("Frank Herbert")
	neighbors := g.Neighbors(authorID)
	if len(neighbors) != 2 {
		t.Errorf("author neighbors = %v", neighbors)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := record("Dune", "Frank Herbert", 4)
	a.Subjects = []string{"Science Fiction", "Ecology"}
	a.FirstPublishYear = 1965
	b := record("Hyperion", "Dan Simmons", 5)
	b.Subjects = []string{"Science Fiction"}
	b.AwardSlugs = []string{"hugo_award"}
	c := record("Solaris", "Stanislaw Lem", 0)

	g1 := Build([]*domain.BookRecord{a, b, c})
	g2 := Build([]*domain.BookRecord{c, b, a})

	n1, n2 := g1.Nodes(), g2.Nodes()
	if len(n1) != len(n2) {
		t.Fatalf("node counts differ: %d vs %d", len(n1), len(n2))
	}
	for i := range n1 {
		if n1[i].ID != n2[i].ID {
			t.Errorf("node %d: %q vs %q", i, n1[i].ID, n2[i].ID)
		}
	}

	e1, e2 := g1.Edges(), g2.Edges()
	if len(e1) != len(e2) {
		t.Fatalf("edge counts differ: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		f1, t1 := ordered(e1[i])
		f2, t2 := ordered(e2[i])
		if f1 != f2 || t1 != t2 || e1[i].Weight != e2[i].Weight {
			t.Errorf("edge %d differs: %+v vs %+v", i, e1[i], e2[i])
		}
	}
}

func TestAddEdge_OverwriteAndGuards(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Kind: KindBook})
	g.AddNode(Node{ID: "b", Kind: KindAuthor})

	g.AddEdge("a", "b", 1.0, "wrote")
	g.AddEdge("a", "b", 1.2, "wrote")
	if e := g.Edge("a", "b"); e.Weight != 1.2 {
		t.Errorf("re-add did not overwrite, weight = %v", e.Weight)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	g.AddEdge("a", "a", 1.0, "self")
	g.AddEdge("a", "missing", 1.0, "dangling")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount after guards = %d, want 1", g.EdgeCount())
	}
}

func TestClone_Isolated(t *testing.T) {
	rec := record("Dune", "Frank Herbert", 4)
	rec.Subjects = []string{"Science Fiction"}
	g := Build([]*domain.BookRecord{rec})

	c := g.Clone()
	c.AddNode(Node{ID: "book::extra", Kind: KindBook, Label: "Extra", Ephemeral: true})
	c.AddEdge("book::extra", AuthorNodeID("Frank Herbert"), 0.6, "also wrote")

	if g.HasNode("book::extra") {
		t.Error("clone mutation leaked into original nodes")
	}
	if g.EdgeCount() == c.EdgeCount() {
		t.Error("clone mutation leaked into original edges")
	}

	// Edge structs are copied too.
	ce := c.Edge(NodeID(KindBook, rec.ID), AuthorNodeID("Frank Herbert"))
	ce.Weight = 99
	if ge := g.Edge(NodeID(KindBook, rec.ID), AuthorNodeID("Frank Herbert")); ge.Weight == 99 {
		t.Error("clone shares edge structs with original")
	}
}

func TestNeighborhood(t *testing.T) {
	a := record("Dune", "Frank Herbert", 4)
	a.Subjects = []string{"Science Fiction"}
	b := record("Hyperion", "Dan Simmons", 5)
	b.Subjects = []string{"Science Fiction"}
	g := Build([]*domain.BookRecord{a, b})

	start := NodeID(KindBook, a.ID)

	nodes, _ := g.Neighborhood(start, 1)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	want := []string{AuthorNodeID("Frank Herbert"), start, SubjectNodeID("Science Fiction")}
	slices.Sort(want)
	if !slices.Equal(ids, want) {
		t.Errorf("depth-1 nodes = %v, want %v", ids, want)
	}

	// Depth 2 crosses the shared subject to the other book.
	nodes, edges := g.Neighborhood(start, 2)
	found := false
	for _, n := range nodes {
		if n.ID == NodeID(KindBook, b.ID) {
			found = true
		}
	}
	if !found {
		t.Error("depth-2 neighborhood missing book reached via shared subject")
	}
	if len(edges) == 0 {
		t.Error("expected edges in neighborhood")
	}

	if nodes, edges := g.Neighborhood("book::nope", 2); nodes != nil || edges != nil {
		t.Error("unknown start should return nil slices")
	}
}

func TestEraFor(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1965, "1960s"},
		{2001, "2000s"},
		{0, ""},
		{800, ""},
	}
	for _, tt := range tests {
		if got := eraFor(tt.year); got != tt.want {
			t.Errorf("eraFor(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}
