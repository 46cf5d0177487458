package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

const indentWidth = 4

// Text draws the subtree behind view sideways: the root at the left margin,
// right children above their parent and left children below. Every node is
// followed by its balance factor in brackets, coloured green when 0, yellow
// when ±1 and red otherwise.
func Text[T any](view avl.View[T], colorize bool) (string, error) {
	root, err := Snapshot(view)
	if err != nil {
		return "", err
	}

	palette := newPalette(colorize)

	var sb strings.Builder

	writeSideways(&sb, root, 0, palette)

	return sb.String(), nil
}

func writeSideways(sb *strings.Builder, n *Node, depth int, palette balancePalette) {
	if n == nil {
		return
	}

	writeSideways(sb, n.Right, depth+1, palette)

	sb.WriteString(strings.Repeat(" ", depth*indentWidth))
	sb.WriteString(fmt.Sprint(n.Item))
	sb.WriteString(" ")
	sb.WriteString(palette.format(n.Balance))
	sb.WriteString("\n")

	writeSideways(sb, n.Left, depth+1, palette)
}

type balancePalette struct {
	balanced, leaning, broken *color.Color
}

func newPalette(colorize bool) balancePalette {
	p := balancePalette{
		balanced: color.New(color.FgGreen),
		leaning:  color.New(color.FgYellow),
		broken:   color.New(color.FgRed, color.Bold),
	}

	for _, c := range []*color.Color{p.balanced, p.leaning, p.broken} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p balancePalette) format(balance int) string {
	label := fmt.Sprintf("[%+d]", balance)
	if balance == 0 {
		label = "[0]"
	}

	switch balance {
	case 0:
		return p.balanced.Sprint(label)
	case -1, 1:
		return p.leaning.Sprint(label)
	default:
		return p.broken.Sprint(label)
	}
}
