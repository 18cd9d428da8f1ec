package command

import "sort"

// Kind distinguishes the three node shapes spec §3 names: Root, Literal, Argument.
type Kind int

const (
	KindRoot Kind = iota
	KindLiteral
	KindArgument
)

// ArgumentParser consumes from reader per its grammar and returns the parsed
// value as an opaque any, or a SyntaxError. Parsers never inspect the
// command source; requirement predicates do that separately.
type ArgumentParser func(reader *StringReader) (any, error)

// Command is the action attached to an executable node. It returns an
// integer result (spec §4.6 "Execution": "returning the last action's
// integer result").
type Command[S any] func(ctx *Context[S]) (int, error)

// Requirement gates whether a node is visible to a given source.
type Requirement[S any] func(source S) bool

// SuggestionProvider proposes completions for a partially-typed argument.
type SuggestionProvider[S any] func(ctx *Context[S], builder *SuggestionsBuilder) *Suggestions

// Node is one node of the command tree (spec §3 "Command node").
type Node[S any] struct {
	kind Kind
	name string // literal text, or argument name

	parser ArgumentParser // nil for Root/Literal

	children map[string]*Node[S]

	command     Command[S]
	requirement Requirement[S]
	redirect    *Node[S] // weak reference: confers reachability, not ownership (spec §3)
	suggests    SuggestionProvider[S]
}

func newNode[S any](kind Kind, name string) *Node[S] {
	return &Node[S]{kind: kind, name: name, children: make(map[string]*Node[S])}
}

// NewRoot builds an empty root node.
func NewRoot[S any]() *Node[S] {
	return newNode[S](KindRoot, "")
}

// Kind returns the node's Kind.
func (n *Node[S]) Kind() Kind { return n.kind }

// Name returns the node's literal text or argument name ("" for Root).
func (n *Node[S]) Name() string { return n.name }

// IsExecutable reports whether this node has an attached command action.
func (n *Node[S]) IsExecutable() bool { return n.command != nil }

// Redirect returns the node's redirect target, if any.
func (n *Node[S]) Redirect() *Node[S] { return n.redirect }

// Children returns the node's children, unordered.
func (n *Node[S]) Children() []*Node[S] {
	out := make([]*Node[S], 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out
}

// AddChild merges child into this node's children. If a child with the same
// name already exists, its command/requirement/redirect/suggests are
// preserved where the new child leaves them unset, matching brigadier's
// "re-registering a literal merges rather than replaces" behavior.
func (n *Node[S]) AddChild(child *Node[S]) {
	existing, ok := n.children[child.name]
	if !ok {
		n.children[child.name] = child
		return
	}
	if child.command != nil {
		existing.command = child.command
	}
	if child.requirement != nil {
		existing.requirement = child.requirement
	}
	if child.redirect != nil {
		existing.redirect = child.redirect
	}
	if child.suggests != nil {
		existing.suggests = child.suggests
	}
	for _, gc := range child.children {
		existing.AddChild(gc)
	}
}

// relevantChildren returns this node's children ordered per spec §4.6:
// "literals whose prefix matches come first" — here, all literal-kind
// children precede argument-kind children, each group ordered by name for
// determinism (spec invariant 6: "execute(...) is deterministic").
func (n *Node[S]) relevantChildren() []*Node[S] {
	literals := make([]*Node[S], 0, len(n.children))
	arguments := make([]*Node[S], 0, len(n.children))
	for _, c := range n.children {
		if c.kind == KindLiteral {
			literals = append(literals, c)
		} else {
			arguments = append(arguments, c)
		}
	}
	sort.Slice(literals, func(i, j int) bool { return literals[i].name < literals[j].name })
	sort.Slice(arguments, func(i, j int) bool { return arguments[i].name < arguments[j].name })
	return append(literals, arguments...)
}

// relevantChildrenFor returns relevantChildren() filtered to those visible
// to source (requirement predicate passes or is unset).
func (n *Node[S]) relevantChildrenFor(source S) []*Node[S] {
	all := n.relevantChildren()
	out := make([]*Node[S], 0, len(all))
	for _, c := range all {
		if c.requirement == nil || c.requirement(source) {
			out = append(out, c)
		}
	}
	return out
}

// parseNode attempts to consume this node's grammar at reader's current
// position. For a Literal node, it matches the literal text exactly; for an
// Argument node, it defers to the attached parser.
func (n *Node[S]) parseNode(reader *StringReader) (any, error) {
	switch n.kind {
	case KindLiteral:
		start := reader.Cursor()
		for i := 0; i < len(n.name); i++ {
			if !reader.CanRead() || reader.Peek() != n.name[i] {
				reader.SetCursor(start)
				return nil, newSyntaxError(KindUnknownCommand, n.name)
			}
			reader.Read()
		}
		// a literal must be immediately followed by end-of-input or a space;
		// otherwise "foob" must not match literal "foo".
		if reader.CanRead() && reader.Peek() != ' ' {
			reader.SetCursor(start)
			return nil, newSyntaxError(KindUnknownCommand, n.name)
		}
		return n.name, nil
	case KindArgument:
		return n.parser(reader)
	default:
		return nil, newSyntaxError(KindUnknownCommand, "")
	}
}
