package builder

import (
	"errors"
	"fmt"

	"github.com/dhamidi/grammarkit/syntax"
)

var ErrNoRoot = errors.New("builder: no root marker")

// Tree builds the syntax tree from the recorded markers. The first marker
// is the root; it is stretched to cover every token. Marker edges are moved
// across adjacent trivia by their edge binders before nodes are created.
func (b *TreeBuilder) Tree() (*syntax.Node, error) {
	if len(b.productions) < 2 || b.productions[0].kind != startProd {
		return nil, ErrNoRoot
	}
	root := b.productions[0].m
	last := b.productions[len(b.productions)-1]
	if last.kind != doneProd || last.m != root {
		return nil, fmt.Errorf("builder: root marker %s is not the last completed marker", root.typ)
	}
	for _, p := range b.productions {
		if p.kind == startProd && !p.m.done {
			return nil, fmt.Errorf("builder: marker %d at token %d was never completed", p.m.id, p.m.start)
		}
	}
	root.start = 0
	root.end = len(b.tokens)

	b.balanceEdges()
	return b.buildNodes(), nil
}

func (b *TreeBuilder) balanceEdges() {
	prev := 0
	inner := b.productions[1 : len(b.productions)-1]
	for i := range inner {
		p := &inner[i]
		idx := max(p.index(), prev)
		wsStart := idx
		for wsStart > prev && b.trivia.Contains(b.tokens[wsStart-1].Type) {
			wsStart--
		}
		wsEnd := idx
		for wsEnd < len(b.tokens) && b.trivia.Contains(b.tokens[wsEnd].Type) {
			wsEnd++
		}
		if wsStart != wsEnd {
			binder := p.m.left
			if p.kind == doneProd {
				binder = p.m.right
			}
			run := make([]*syntax.ElementType, wsEnd-wsStart)
			for j := range run {
				run[j] = b.tokens[wsStart+j].Type
			}
			atEdge := wsStart == 0 || wsEnd == len(b.tokens)
			idx = wsStart + min(max(binder(run, atEdge), 0), len(run))
		}
		if p.kind == startProd {
			p.m.start = idx
		} else {
			p.m.end = max(idx, p.m.start)
			idx = p.m.end
		}
		prev = idx
	}
}

func (b *TreeBuilder) buildNodes() *syntax.Node {
	var stack []*syntax.Node
	cursor := 0
	emit := func(until int) {
		top := stack[len(stack)-1]
		for ; cursor < until; cursor++ {
			tok := &b.tokens[cursor]
			top.AddChild(&syntax.Node{
				Type:  tok.Type,
				Span:  syntax.Span{Start: tok.Pos, End: tok.End()},
				Token: tok,
			})
		}
	}
	var root *syntax.Node
	for _, p := range b.productions {
		switch p.kind {
		case startProd:
			if len(stack) > 0 {
				emit(p.m.start)
			}
			n := &syntax.Node{Type: p.m.typ, Error: p.m.message}
			n.Span.Start = b.position(p.m.start)
			if len(stack) > 0 {
				stack[len(stack)-1].AddChild(n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case doneProd:
			emit(p.m.end)
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n.Span.End = n.Span.Start
			if p.m.end > p.m.start {
				n.Span.End = b.tokens[p.m.end-1].End()
			}
		}
	}
	return root
}

// position returns the start of the token at index, or the end of input.
func (b *TreeBuilder) position(index int) syntax.Position {
	if index < len(b.tokens) {
		return b.tokens[index].Pos
	}
	return b.endOfInput()
}
