package ui

import (
	"errors"
	"strconv"
	"strings"

	"pawtrades/internal/catalog"

	"github.com/charmbracelet/huh"
)

var (
	errNameRequired = errors.New("El nombre no puede estar vacío")
	errNotANumber   = errors.New("Tiene que ser un número")
	errNegative     = errors.New("No puede ser negativo")
	errEmailNeeded  = errors.New("Ingresá tu email")
	errPassNeeded   = errors.New("Ingresá tu contraseña")
)

func ValidateName(name string) error {
	err := catalog.ValidateName(name)
	if errors.Is(err, catalog.ErrEmptyName) {
		return errNameRequired
	}
	return err
}

// ValidateAmount accepts blank input, which the catalog treats as zero.
func ValidateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errNotANumber
	}
	if f < 0 {
		return errNegative
	}
	return nil
}

func required(err error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}

// ItemForm collects a catalog.Draft. Fields already set on d are used as
// defaults.
func ItemForm(d *catalog.Draft) *huh.Form {
	if d.Rarity == "" {
		d.Rarity = string(catalog.Rarities[0])
	}
	options := make([]huh.Option[string], len(catalog.Rarities))
	for i, r := range catalog.Rarities {
		options[i] = huh.NewOption(r.Label(), string(r))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nombre").
				Placeholder("ej. Shadow Dragon").
				Value(&d.Name).
				Validate(ValidateName),
			huh.NewSelect[string]().
				Title("Rareza").
				Options(options...).
				Value(&d.Rarity),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Precio (ARS)").
				Value(&d.Price).
				Validate(ValidateAmount),
			huh.NewInput().
				Title("Stock").
				Value(&d.Stock).
				Validate(ValidateAmount),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("URL de imagen").
				Description("Cuadrada o rectangular").
				Value(&d.Img),
			huh.NewInput().
				Title("Tags").
				Placeholder("neón,fly,ride").
				Value(&d.Tags),
		),
	).WithTheme(FormTheme())
}

func DraftFields(d catalog.Draft) []Field {
	rarity := d.Rarity
	if r, ok := catalog.ParseRarity(d.Rarity); ok {
		rarity = r.Label()
	}
	return []Field{
		{Label: "Nombre", Value: strings.TrimSpace(d.Name)},
		{Label: "Rareza", Value: rarity},
		{Label: "Precio", Value: strings.TrimSpace(d.Price)},
		{Label: "Stock", Value: strings.TrimSpace(d.Stock)},
		{Label: "Imagen", Value: strings.TrimSpace(d.Img), Optional: true},
		{Label: "Tags", Value: strings.Join(catalog.SplitTags(d.Tags), ", "), Optional: true},
	}
}

func ConfirmForm(title string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Eliminar").
				Negative("Cancelar").
				Value(ok),
		),
	).WithTheme(FormTheme())
}

// LoginForm asks for whichever of email and password is still empty.
func LoginForm(email, password *string) *huh.Form {
	var fields []huh.Field
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email).
			Validate(required(errEmailNeeded)))
	}
	fields = append(fields, huh.NewInput().
		Title("Contraseña").
		EchoMode(huh.EchoModePassword).
		Value(password).
		Validate(required(errPassNeeded)))

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(FormTheme())
}
