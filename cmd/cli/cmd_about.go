package main

import "fmt"

const disclaimer = "Sitio de fans, no oficial. No está afiliado ni respaldado por los creadores del juego. " +
	"Los pets son objetos virtuales y cada intercambio se acuerda entre particulares."

type AboutCmd struct{}

func (cmd *AboutCmd) Run(g *Globals) error {
	o := g.Owner
	fmt.Fprintln(g.Out, o.Brand)
	fmt.Fprintln(g.Out, o.Tagline)
	fmt.Fprintf(g.Out, "Ubicado en %s · Precios en %s\n", o.Location, o.Currency)
	fmt.Fprintf(g.Out, "WhatsApp: %s\n", g.Links.Plain())
	fmt.Fprintln(g.Out)
	fmt.Fprintln(g.Out, "Descargo de responsabilidad")
	fmt.Fprintln(g.Out, disclaimer)
	return nil
}
