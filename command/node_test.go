package command

import "testing"

// TestAddChildMergesRatherThanReplaces mirrors brigadier's behavior: adding a
// literal node with the same name as an existing child merges grandchildren
// and preserves a command/requirement the new registration leaves unset.
func TestAddChildMergesRatherThanReplaces(t *testing.T) {
	root := NewRoot[int]()

	first := Literal[int]("gamemode").
		Then(Literal[int]("survival").Executes(func(ctx *Context[int]) (int, error) { return 1, nil })).
		Build()
	root.AddChild(first)

	second := Literal[int]("gamemode").
		Then(Literal[int]("creative").Executes(func(ctx *Context[int]) (int, error) { return 2, nil })).
		Build()
	root.AddChild(second)

	merged := root.Children()
	if len(merged) != 1 {
		t.Fatalf("expected a single merged 'gamemode' child, got %d", len(merged))
	}
	gm := merged[0]
	if len(gm.Children()) != 2 {
		t.Fatalf("expected both 'survival' and 'creative' grandchildren after merge, got %d", len(gm.Children()))
	}
}

func TestRelevantChildrenOrdersLiteralsBeforeArguments(t *testing.T) {
	root := NewRoot[int]()
	root.AddChild(Argument[int]("zzz", func(r *StringReader) (any, error) { return r.ReadUnquotedString(), nil }).Build())
	root.AddChild(Literal[int]("bbb").Build())
	root.AddChild(Literal[int]("aaa").Build())

	children := root.relevantChildren()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	if children[0].Name() != "aaa" || children[1].Name() != "bbb" {
		t.Fatalf("expected literals sorted before arguments, got order %v, %v, %v",
			children[0].Name(), children[1].Name(), children[2].Name())
	}
	if children[2].Kind() != KindArgument {
		t.Fatalf("expected the argument node last, got kind %v", children[2].Kind())
	}
}

func TestLiteralParseNodeRejectsPartialMatch(t *testing.T) {
	n := Literal[int]("foo").Build()
	r := NewStringReader("foobar")
	if _, err := n.parseNode(r); err == nil {
		t.Fatal("expected literal 'foo' to reject input 'foobar' (no separator after match)")
	}
	if r.Cursor() != 0 {
		t.Fatalf("expected cursor restored to 0 on rejection, got %d", r.Cursor())
	}
}

func TestLiteralParseNodeAcceptsExactAndSeparated(t *testing.T) {
	n := Literal[int]("foo").Build()

	r := NewStringReader("foo")
	if _, err := n.parseNode(r); err != nil {
		t.Fatalf("expected literal 'foo' to match exact input: %v", err)
	}

	r2 := NewStringReader("foo bar")
	if _, err := n.parseNode(r2); err != nil {
		t.Fatalf("expected literal 'foo' to match with trailing separator: %v", err)
	}
	if r2.Cursor() != 3 {
		t.Fatalf("expected cursor at 3 after matching 'foo', got %d", r2.Cursor())
	}
}
