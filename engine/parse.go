package engine

import "strings"

const (
	leftDelim  = "{{"
	rightDelim = "}}"
)

// node is one element of a parsed template.
type node interface {
	node()
}

type textNode struct {
	text string
}

type varNode struct {
	name string
}

type includeNode struct {
	name string
}

type ifNode struct {
	name string
	body []node
}

type eachNode struct {
	name string
	body []node
}

func (textNode) node()    {}
func (varNode) node()     {}
func (includeNode) node() {}
func (ifNode) node()      {}
func (eachNode) node()    {}

type blockKind int

const (
	blockIf blockKind = iota
	blockEach
)

// frame is an open {{#if}} or {{#each}} awaiting its closer.
type frame struct {
	kind  blockKind
	name  string
	nodes []node
}

// parse turns template text into a node list. Blocks nest arbitrarily. An
// opener without a matching closer and a closer without an opener are both
// dropped; the text between them is kept as if the tag were absent.
func parse(src string) []node {
	root := &frame{}
	stack := []*frame{root}
	top := func() *frame { return stack[len(stack)-1] }

	for len(src) > 0 {
		start := strings.Index(src, leftDelim)
		if start < 0 {
			top().nodes = appendText(top().nodes, src)
			break
		}
		end := strings.Index(src[start+len(leftDelim):], rightDelim)
		if end < 0 {
			// No closing delimiter anywhere after this point.
			top().nodes = appendText(top().nodes, src)
			break
		}
		if start > 0 {
			top().nodes = appendText(top().nodes, src[:start])
		}
		tag := strings.TrimSpace(src[start+len(leftDelim) : start+len(leftDelim)+end])
		src = src[start+len(leftDelim)+end+len(rightDelim):]

		switch {
		case strings.HasPrefix(tag, ">"):
			if name := strings.TrimSpace(tag[1:]); name != "" {
				top().nodes = append(top().nodes, includeNode{name: name})
			}
		case strings.HasPrefix(tag, "#"):
			kind, name, ok := blockOpener(tag[1:])
			if !ok {
				continue
			}
			stack = append(stack, &frame{kind: kind, name: name})
		case strings.HasPrefix(tag, "/"):
			kind, ok := blockCloser(tag[1:])
			if !ok {
				continue
			}
			idx := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].kind == kind {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue
			}
			for len(stack)-1 > idx {
				stack = unwind(stack)
			}
			f := stack[idx]
			stack = stack[:idx]
			top().nodes = append(top().nodes, f.close())
		case tag == "":
		default:
			top().nodes = append(top().nodes, varNode{name: tag})
		}
	}

	for len(stack) > 1 {
		stack = unwind(stack)
	}
	return root.nodes
}

// unwind pops an unterminated frame and splices its children into its parent.
func unwind(stack []*frame) []*frame {
	f := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	parent := stack[len(stack)-1]
	for _, n := range f.nodes {
		if t, ok := n.(textNode); ok {
			parent.nodes = appendText(parent.nodes, t.text)
			continue
		}
		parent.nodes = append(parent.nodes, n)
	}
	return stack
}

func (f *frame) close() node {
	if f.kind == blockEach {
		return eachNode{name: f.name, body: f.nodes}
	}
	return ifNode{name: f.name, body: f.nodes}
}

func blockOpener(tag string) (blockKind, string, bool) {
	fields := strings.Fields(tag)
	if len(fields) != 2 {
		return 0, "", false
	}
	name := fields[1]
	switch fields[0] {
	case "if":
		return blockIf, name, true
	case "each":
		return blockEach, name, true
	}
	return 0, "", false
}

func blockCloser(tag string) (blockKind, bool) {
	switch strings.TrimSpace(tag) {
	case "if":
		return blockIf, true
	case "each":
		return blockEach, true
	}
	return 0, false
}

// appendText merges adjacent text so evaluation writes fewer pieces.
func appendText(nodes []node, s string) []node {
	if s == "" {
		return nodes
	}
	if n := len(nodes); n > 0 {
		if t, ok := nodes[n-1].(textNode); ok {
			nodes[n-1] = textNode{text: t.text + s}
			return nodes
		}
	}
	return append(nodes, textNode{text: s})
}
