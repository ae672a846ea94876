package lexical

func doc(blocks ...*Node) *Document {
	return &Document{Root: &Node{Type: TypeRoot, Children: blocks}}
}

func heading(tag, text string) *Node {
	return &Node{Type: TypeHeading, Tag: tag, Children: []*Node{NewText(text, 0)}}
}

func para(children ...*Node) *Node {
	return NewParagraph(children...)
}

func text(s string) *Node {
	return NewText(s, 0)
}
