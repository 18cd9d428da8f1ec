package command

import (
	"strings"
	"sync"
)

// Dispatcher owns a command tree's root and provides parse/execute/usage/
// suggestion operations over it (spec §3 "Command dispatcher", §5
// concurrency: "the root is guarded by a RWMutex; registration locks for
// writing, every other operation locks for reading").
type Dispatcher[S any] struct {
	mu   sync.RWMutex
	root *Node[S]
}

// NewDispatcher returns a Dispatcher with an empty root.
func NewDispatcher[S any]() *Dispatcher[S] {
	return &Dispatcher[S]{root: NewRoot[S]()}
}

// Register adds node as a top-level command, merging with any
// already-registered node of the same name (Node.AddChild's merge rule).
func (d *Dispatcher[S]) Register(node *Node[S]) *Node[S] {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root.AddChild(node)
	return d.root.children[node.name]
}

// Root returns the dispatcher's root node.
func (d *Dispatcher[S]) Root() *Node[S] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Parse runs the recursive descent parse over input without executing
// anything, returning the raw ParseResults for inspection, execution, or
// completion.
func (d *Dispatcher[S]) Parse(input string, source S) *ParseResults[S] {
	d.mu.RLock()
	root := d.root
	d.mu.RUnlock()

	reader := NewStringReader(input)
	ctxBuilder := newContextBuilder[S](source, 0)
	return parseNodes(root, reader, ctxBuilder)
}

// Execute parses and runs input, per spec §4.6 "Execution".
func (d *Dispatcher[S]) Execute(input string, source S) (int, error) {
	return d.ExecuteParsed(d.Parse(input, source))
}

// ExecuteParsed runs an already-parsed result. Splitting Parse from
// ExecuteParsed lets callers inspect a parse (e.g. for logging) before
// deciding whether to run it.
func (d *Dispatcher[S]) ExecuteParsed(parse *ParseResults[S]) (int, error) {
	if parse.reader.CanRead() {
		if len(parse.exceptions) == 1 {
			for _, err := range parse.exceptions {
				return 0, err
			}
		}
		if len(parse.ctxBuilder.nodes) == 0 {
			return 0, newSyntaxError(KindUnknownCommand, parse.reader.Remaining())
		}
		return 0, newSyntaxError(KindUnknownArgument, parse.reader.Remaining())
	}

	ctx := parse.ctxBuilder.build(parse.reader.String())
	chain := ctx.flatten()
	if len(chain) == 0 {
		return 0, newSyntaxError(KindUnknownCommand, "")
	}

	var result int
	var err error
	for _, c := range chain {
		result, err = c.command(c)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetCompletionSuggestions parses input up to cursor and proposes
// completions for whatever token is being typed there, merging literal and
// argument-provider candidates per spec §4.6's suggestions pass.
func (d *Dispatcher[S]) GetCompletionSuggestions(input string, source S, cursor int) *Suggestions {
	if cursor < 0 || cursor > len(input) {
		cursor = len(input)
	}
	truncated := input[:cursor]
	parse := d.Parse(truncated, source)

	ctxB := parse.ctxBuilder
	for ctxB.child != nil {
		ctxB = ctxB.child
	}

	var parent *Node[S]
	if n := len(ctxB.nodes); n > 0 {
		parent = ctxB.nodes[n-1].Node
	} else {
		d.mu.RLock()
		parent = d.root
		d.mu.RUnlock()
	}

	start := parse.reader.Cursor()
	remaining := strings.ToLower(truncated[start:])

	var sets []*Suggestions
	for _, child := range parent.relevantChildrenFor(source) {
		if child.kind == KindLiteral {
			if strings.HasPrefix(strings.ToLower(child.name), remaining) {
				b := NewSuggestionsBuilder(truncated, start)
				b.Suggest(child.name)
				sets = append(sets, b.Build())
			}
			continue
		}
		if child.suggests != nil {
			ctx := ctxB.build(truncated)
			sets = append(sets, child.suggests(ctx, NewSuggestionsBuilder(truncated, start)))
		}
	}
	return MergeSuggestions(truncated, sets)
}

// GetAllUsage renders every executable path reachable from node as a plain
// "literal argName literal2" string, per spec §4.6's plain usage form.
func (d *Dispatcher[S]) GetAllUsage(node *Node[S], source S, restricted bool) []string {
	var out []string
	d.collectUsage(node, source, restricted, "", &out)
	return out
}

func (d *Dispatcher[S]) collectUsage(node *Node[S], source S, restricted bool, prefix string, out *[]string) {
	if restricted && node.requirement != nil && !node.requirement(source) {
		return
	}
	var line string
	if prefix == "" {
		line = node.usageToken()
	} else {
		line = prefix + " " + node.usageToken()
	}
	if node.IsExecutable() {
		*out = append(*out, line)
	}
	if node.redirect != nil {
		*out = append(*out, line+" -> "+node.redirect.usageToken())
		return
	}
	for _, c := range node.relevantChildren() {
		d.collectUsage(c, source, restricted, line, out)
	}
}

func (n *Node[S]) usageToken() string {
	switch n.kind {
	case KindLiteral:
		return n.name
	case KindArgument:
		return "<" + n.name + ">"
	default:
		return ""
	}
}

// GetSmartUsage renders node's children as brigadier's "smart usage": each
// direct child on its own line, with single-child chains collapsed and
// sibling groups rendered as (a|b|c) when all are required or [a|b|c] when
// any one of them is optional relative to the parent, per spec §4.6.
func (d *Dispatcher[S]) GetSmartUsage(node *Node[S], source S) map[*Node[S]]string {
	out := make(map[*Node[S]]string)
	for _, c := range node.relevantChildrenFor(source) {
		optional := node.IsExecutable()
		out[c] = d.smartNode(c, source, optional)
	}
	return out
}

func (d *Dispatcher[S]) smartNode(node *Node[S], source S, optional bool) string {
	if node.redirect != nil {
		target := "..."
		if node.redirect != node {
			target = node.redirect.usageToken()
		}
		self := node.usageToken() + "-> " + target
		if optional {
			return "[" + self + "]"
		}
		return self
	}

	self := node.usageToken()
	if optional {
		self = "[" + self + "]"
	}

	children := node.relevantChildrenFor(source)
	if len(children) == 0 {
		return self
	}
	if len(children) == 1 {
		return self + " " + d.smartNode(children[0], source, node.IsExecutable())
	}

	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.usageToken())
	}
	group := "(" + strings.Join(names, "|") + ")"
	if node.IsExecutable() {
		group = "[" + group + "]"
	}
	return self + " " + group
}
