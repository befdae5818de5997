package render

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// PlaceholderImage stands in for items whose image is missing or unusable.
const PlaceholderImage = "https://placehold.co/600x600?text=Sin+imagen"

type LipglossRenderer struct {
	width int
	r     *lipgloss.Renderer

	nameStyle    lipgloss.Style
	priceStyle   lipgloss.Style
	metaStyle    lipgloss.Style
	outStyle     lipgloss.Style
	tagStyle     lipgloss.Style
	faintStyle   lipgloss.Style
	summaryStyle lipgloss.Style
	linkStyle    lipgloss.Style
}

func NewLipglossRenderer(w io.Writer, width int) *LipglossRenderer {
	r := lipgloss.NewRenderer(w)
	return &LipglossRenderer{
		width:        width,
		r:            r,
		nameStyle:    r.NewStyle().Bold(true),
		priceStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		metaStyle:    r.NewStyle().Faint(true),
		outStyle:     r.NewStyle().Foreground(lipgloss.Color("9")),
		tagStyle:     r.NewStyle().Foreground(lipgloss.Color("12")),
		faintStyle:   r.NewStyle().Faint(true),
		summaryStyle: r.NewStyle().Italic(true),
		linkStyle:    r.NewStyle().Underline(true),
	}
}

func NewLipglossRendererAuto(w io.Writer) *LipglossRenderer {
	width := 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(f.Fd()); err == nil && tw > 0 {
			width = tw
		}
	}
	return NewLipglossRenderer(w, width)
}

func (r *LipglossRenderer) RenderItemList(view ItemListView) string {
	if view.IsEmpty() {
		return "No hay pets que coincidan.\n"
	}

	var sb strings.Builder
	if view.Summary != "" {
		sb.WriteString(r.summaryStyle.Render(view.Summary))
		sb.WriteString("\n\n")
	}
	cards := make([]string, len(view.Items))
	for i, item := range view.Items {
		cards[i] = strings.Join(r.card(item), "\n")
	}
	sb.WriteString(strings.Join(cards, "\n\n"))
	sb.WriteString("\n")
	return sb.String()
}

func (r *LipglossRenderer) RenderItemDetail(view ItemDetailView) string {
	lines := r.card(view.Item)
	lines = append(lines,
		r.faintStyle.Render("  Imagen: ")+ImageURL(view.Item.Img),
		r.faintStyle.Render("  ID: ")+view.Item.ID,
	)
	if view.Contact != "" {
		lines = append(lines, "", "  Contactar por WhatsApp:", "  "+r.linkStyle.Render(view.Contact))
	}
	if view.CanDelete {
		lines = append(lines, "", r.faintStyle.Render(fmt.Sprintf("  Eliminar: pawtrades rm %s", view.Item.ID)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (r *LipglossRenderer) card(item ItemCard) []string {
	name := r.nameStyle.Render(item.Name)
	price := r.priceStyle.Render(item.Price)

	padding := max(1, r.width-lipgloss.Width(name)-lipgloss.Width(price))
	headerLine := name + strings.Repeat(" ", padding) + price

	stockStyle := r.metaStyle
	if item.Stock <= 0 {
		stockStyle = r.outStyle
	}
	meta := r.metaStyle.Render("  "+item.Rarity+" · ") + stockStyle.Render(fmt.Sprintf("Stock: %d", item.Stock))

	lines := []string{headerLine, meta}
	if len(item.Tags) > 0 {
		chips := make([]string, len(item.Tags))
		for i, t := range item.Tags {
			chips[i] = r.tagStyle.Render("#" + t)
		}
		lines = append(lines, "  "+strings.Join(chips, " "))
	}
	return lines
}

// ImageURL returns raw when it is an absolute http(s) URL and the
// placeholder otherwise.
func ImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return PlaceholderImage
	}
	return raw
}
