// Package document builds the per-project document shown in the document
// view. The content is a fixed template; editing it is left to whatever
// editor hosts the blocks.
package document

import (
	"fmt"
	"strings"
)

// BlockType is the kind of a document block
type BlockType string

const (
	Heading          BlockType = "heading"
	Paragraph        BlockType = "paragraph"
	BulletListItem   BlockType = "bulletListItem"
	NumberedListItem BlockType = "numberedListItem"
)

// Block is one unit of document content. Level only applies to headings and
// defaults to 1.
type Block struct {
	Type    BlockType
	Level   int
	Content string
}

// Template returns the starting document for a project
func Template(projectName string) []Block {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "Project"
	}
	return []Block{
		{Type: Heading, Level: 1, Content: name + " Documentation"},
		{Type: Paragraph, Content: "Welcome to your project documentation. Start writing here..."},
		{Type: Heading, Level: 2, Content: "Project Overview"},
		{Type: Paragraph, Content: "This is a block-based document where you can keep comprehensive documentation for your project."},
		{Type: Heading, Level: 2, Content: "Features"},
		{Type: BulletListItem, Content: "Block-based editing"},
		{Type: BulletListItem, Content: "Reorder blocks freely"},
		{Type: BulletListItem, Content: "Rich text formatting (bold, italic, underline)"},
		{Type: BulletListItem, Content: "Multiple heading levels"},
		{Type: BulletListItem, Content: "Code blocks for technical documentation"},
		{Type: Heading, Level: 2, Content: "Getting Started"},
		{Type: NumberedListItem, Content: "Pick a block type for each new line"},
		{Type: NumberedListItem, Content: "Use formatting to style text"},
		{Type: NumberedListItem, Content: "Move blocks to reorder the document"},
		{Type: Paragraph, Content: ""},
		{Type: Paragraph, Content: "Every project starts with this page."},
	}
}

// Markdown renders blocks as markdown. Consecutive list items of the same
// kind form one list; numbered items count from 1 within their list.
func Markdown(blocks []Block) string {
	var b strings.Builder
	var prev BlockType
	num := 0
	for i, blk := range blocks {
		inList := blk.Type == BulletListItem || blk.Type == NumberedListItem
		if i > 0 && !(inList && blk.Type == prev) {
			b.WriteString("\n")
		}
		if blk.Type != NumberedListItem || prev != NumberedListItem {
			num = 0
		}

		switch blk.Type {
		case Heading:
			level := min(max(blk.Level, 1), 6)
			fmt.Fprintf(&b, "%s %s\n", strings.Repeat("#", level), blk.Content)
		case BulletListItem:
			fmt.Fprintf(&b, "- %s\n", blk.Content)
		case NumberedListItem:
			num++
			fmt.Fprintf(&b, "%d. %s\n", num, blk.Content)
		default:
			b.WriteString(blk.Content + "\n")
		}
		prev = blk.Type
	}
	return b.String()
}
