package command

// Builder is the fluent constructor for a Node, mirroring brigadier's
// ArgumentBuilder/LiteralArgumentBuilder/RequiredArgumentBuilder.
type Builder[S any] struct {
	node *Node[S]
}

// Literal starts building a literal (keyword) node.
func Literal[S any](name string) *Builder[S] {
	return &Builder[S]{node: newNode[S](KindLiteral, name)}
}

// Argument starts building an argument node with the given parser.
func Argument[S any](name string, parser ArgumentParser) *Builder[S] {
	n := newNode[S](KindArgument, name)
	n.parser = parser
	return &Builder[S]{node: n}
}

// Then registers a child builder under this node and returns the receiver
// for chaining.
func (b *Builder[S]) Then(child *Builder[S]) *Builder[S] {
	b.node.AddChild(child.Build())
	return b
}

// Executes attaches the action to run when this node is the terminal node
// of a successful parse.
func (b *Builder[S]) Executes(cmd Command[S]) *Builder[S] {
	b.node.command = cmd
	return b
}

// Requires attaches a predicate gating this node's visibility to a source.
func (b *Builder[S]) Requires(req Requirement[S]) *Builder[S] {
	b.node.requirement = req
	return b
}

// Redirect makes this node, once matched, continue parsing at target
// instead of its own children (spec §3/§4.6).
func (b *Builder[S]) Redirect(target *Node[S]) *Builder[S] {
	b.node.redirect = target
	return b
}

// Suggests attaches a suggestion provider for this argument node.
func (b *Builder[S]) Suggests(sp SuggestionProvider[S]) *Builder[S] {
	b.node.suggests = sp
	return b
}

// Build finalizes and returns the underlying Node.
func (b *Builder[S]) Build() *Node[S] {
	return b.node
}
