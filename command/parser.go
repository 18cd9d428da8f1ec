package command

import "sort"

// ParseResults is spec §3's "Parse results": `{ context, reader_state,
// exceptions: mapping<node, error> }`.
type ParseResults[S any] struct {
	ctxBuilder *builder[S]
	reader     *StringReader
	exceptions map[*Node[S]]error
}

// Reader exposes the reader state after parsing (its cursor marks how much
// input was consumed).
func (p *ParseResults[S]) Reader() *StringReader { return p.reader }

// Exceptions returns the per-node errors recorded for children that were
// attempted and failed.
func (p *ParseResults[S]) Exceptions() map[*Node[S]]error { return p.exceptions }

func (b *builder[S]) copy() *builder[S] {
	nb := &builder[S]{source: b.source, rangeStart: b.rangeStart, command: b.command, child: b.child}
	nb.nodes = append([]parsedNode[S]{}, b.nodes...)
	nb.arguments = make(map[string]parsedArgument, len(b.arguments))
	for k, v := range b.arguments {
		nb.arguments[k] = v
	}
	return nb
}

// parseNodes is the recursive descent-with-backtracking core described in
// spec §4.6 "Parse algorithm" steps 1-6.
func parseNodes[S any](node *Node[S], originalReader *StringReader, contextSoFar *builder[S]) *ParseResults[S] {
	source := contextSoFar.source
	exceptions := make(map[*Node[S]]error)
	var potentials []*ParseResults[S]
	cursorStart := originalReader.Cursor()

	for _, child := range node.relevantChildren() {
		// step 1: skip children whose requirement fails.
		if child.requirement != nil && !child.requirement(source) {
			continue
		}

		reader := originalReader.Clone()

		// step 2: attempt to parse at the child.
		value, err := child.parseNode(reader)
		if err != nil {
			// step 3: record the error against the child and restore the reader.
			exceptions[child] = err
			continue
		}

		// step 4: success must be followed by end-of-input or a space.
		if reader.CanRead() && reader.Peek() != ' ' {
			exceptions[child] = newSyntaxError(KindExpectedArgumentSeparator, reader.Remaining())
			continue
		}

		childCtx := contextSoFar.copy()
		nodeRange := Range{Start: cursorStart, End: reader.Cursor()}
		childCtx.withNode(child, nodeRange)
		if child.kind == KindArgument {
			childCtx.withArgument(child.name, value, nodeRange)
		}
		if child.command != nil {
			childCtx.command = child.command
		}

		if reader.CanRead() {
			// step 5: consume the separating space and recurse.
			reader.Read()
			if child.redirect != nil {
				grandchild := childCtx.withChild(source, reader.Cursor())
				deep := parseNodes(child.redirect, reader, grandchild)
				// childCtx keeps this node's own match; the redirect target's
				// result becomes its .child link so flatten() walks both.
				childCtx.child = deep.ctxBuilder
				// redirect branch returns eagerly: no sibling exploration past it.
				return &ParseResults[S]{ctxBuilder: childCtx, reader: deep.reader, exceptions: deep.exceptions}
			}
			potentials = append(potentials, parseNodes(child, reader, childCtx))
		} else {
			// step 6: no further input — record as a potential.
			potentials = append(potentials, &ParseResults[S]{
				ctxBuilder: childCtx,
				reader:     reader,
				exceptions: map[*Node[S]]error{},
			})
		}
	}

	if len(potentials) > 0 {
		if len(potentials) > 1 {
			sort.SliceStable(potentials, func(i, j int) bool {
				return betterPotential(potentials[i], potentials[j])
			})
		}
		return potentials[0]
	}

	return &ParseResults[S]{ctxBuilder: contextSoFar, reader: originalReader, exceptions: exceptions}
}

// betterPotential implements spec §4.6's tie-break order: (a) fully
// consumed input beats remaining input; (b) no exceptions beats some
// exceptions; (c) otherwise equal (stable sort preserves encounter order).
func betterPotential[S any](a, b *ParseResults[S]) bool {
	aConsumed := !a.reader.CanRead()
	bConsumed := !b.reader.CanRead()
	if aConsumed != bConsumed {
		return aConsumed
	}
	aNoExc := len(a.exceptions) == 0
	bNoExc := len(b.exceptions) == 0
	if aNoExc != bNoExc {
		return aNoExc
	}
	return false
}
